/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package record

import (
	"encoding/binary"
	"errors"
	"fmt"

	"dirpx.dev/pulselog/level"
)

// ErrInvalidData is returned when a decoded payload is structurally sound
// but carries a value pulselog does not recognize (chiefly: an unknown
// level tag). It is the Go analogue of Rust's io::ErrorKind::InvalidData,
// which the original implementation returns from the same situation.
var ErrInvalidData = errors.New("pulselog/record: invalid data")

// Encode serializes r into a stable, self-describing binary layout: the
// level as its canonical string tag, followed by every other field in
// declared order. This is the Go analogue of the bincode-derived encoding
// the original implementation used to move records from producer threads to
// sink workers over a channel.
func Encode(r *Record) []byte {
	buf := make([]byte, 0, 128+len(r.Message))
	buf = appendString(buf, r.Level.String())
	buf = appendString(buf, r.Target)
	buf = appendString(buf, r.AuthToken)
	buf = appendString(buf, r.AppID)
	buf = appendString(buf, r.Message)
	buf = appendString(buf, r.ModulePath)
	buf = appendString(buf, r.File)
	buf = binary.LittleEndian.AppendUint32(buf, r.Line)
	buf = appendString(buf, r.Ctx.CorrelationID)
	buf = appendString(buf, r.Ctx.Node)
	return buf
}

// Decode is the inverse of Encode. Decoding an unrecognized level tag
// returns ErrInvalidData, as required by the record round-trip law.
func Decode(b []byte) (Record, error) {
	var r Record
	d := decoder{buf: b}

	lvlTag, err := d.readString()
	if err != nil {
		return Record{}, err
	}
	lvl, err := level.ParseLevel(lvlTag)
	if err != nil {
		return Record{}, fmt.Errorf("%w: unknown level tag %q", ErrInvalidData, lvlTag)
	}
	r.Level = lvl

	if r.Target, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.AuthToken, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.AppID, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.Message, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.ModulePath, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.File, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.Line, err = d.readUint32(); err != nil {
		return Record{}, err
	}
	if r.Ctx.CorrelationID, err = d.readString(); err != nil {
		return Record{}, err
	}
	if r.Ctx.Node, err = d.readString(); err != nil {
		return Record{}, err
	}
	if !d.eof() {
		return Record{}, fmt.Errorf("%w: trailing bytes after record", ErrInvalidData)
	}
	return r, nil
}

// appendString appends a length-prefixed UTF-8 string to buf.
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// decoder is a minimal forward-only cursor over an encoded payload.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) eof() bool { return d.pos >= len(d.buf) }

func (d *decoder) readUint32() (uint32, error) {
	if len(d.buf)-d.pos < 4 {
		return 0, fmt.Errorf("%w: truncated uint32", ErrInvalidData)
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v, nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readUint32()
	if err != nil {
		return "", err
	}
	if uint32(len(d.buf)-d.pos) < n {
		return "", fmt.Errorf("%w: truncated string", ErrInvalidData)
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}
