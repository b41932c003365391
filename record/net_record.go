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
	"fmt"
	"time"

	"dirpx.dev/pulselog/level"
)

// NetRecord is the wire shape the UDP sink sends: one record per datagram,
// no framing envelope. Timestamp is set at encode time (unix seconds).
type NetRecord struct {
	Level      Level
	Target     string
	Message    string
	ModulePath string
	File       string
	Line       uint32
	Timestamp  uint64
	AuthToken  string
	AppID      string
}

// NewNetRecord projects a Record into its wire shape, stamping AuthToken and
// AppID from the sink's own configuration (per spec §4.7 step 1) rather than
// from whatever the record happened to carry, and stamping Timestamp at
// encode time.
func NewNetRecord(r *Record, authToken, appID string) NetRecord {
	return NetRecord{
		Level:      r.Level,
		Target:     r.Target,
		Message:    r.Message,
		ModulePath: r.ModulePath,
		File:       r.File,
		Line:       r.Line,
		Timestamp:  uint64(time.Now().Unix()),
		AuthToken:  authToken,
		AppID:      appID,
	}
}

// EncodeNet serializes a NetRecord with the same self-describing layout
// Encode uses for Record: level as a string tag, then each field in order.
func EncodeNet(n *NetRecord) []byte {
	buf := make([]byte, 0, 128+len(n.Message))
	buf = appendString(buf, n.Level.String())
	buf = appendString(buf, n.Target)
	buf = appendString(buf, n.Message)
	buf = appendString(buf, n.ModulePath)
	buf = appendString(buf, n.File)
	buf = binary.LittleEndian.AppendUint32(buf, n.Line)
	buf = binary.LittleEndian.AppendUint64(buf, n.Timestamp)
	buf = appendString(buf, n.AuthToken)
	buf = appendString(buf, n.AppID)
	return buf
}

// DecodeNet is the inverse of EncodeNet.
func DecodeNet(b []byte) (NetRecord, error) {
	var n NetRecord
	d := decoder{buf: b}

	lvlTag, err := d.readString()
	if err != nil {
		return NetRecord{}, err
	}
	lvl, err := level.ParseLevel(lvlTag)
	if err != nil {
		return NetRecord{}, fmt.Errorf("%w: unknown level tag %q", ErrInvalidData, lvlTag)
	}
	n.Level = lvl

	if n.Target, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if n.Message, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if n.ModulePath, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if n.File, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if n.Line, err = d.readUint32(); err != nil {
		return NetRecord{}, err
	}
	if len(d.buf)-d.pos < 8 {
		return NetRecord{}, fmt.Errorf("%w: truncated timestamp", ErrInvalidData)
	}
	n.Timestamp = binary.LittleEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	if n.AuthToken, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if n.AppID, err = d.readString(); err != nil {
		return NetRecord{}, err
	}
	if !d.eof() {
		return NetRecord{}, fmt.Errorf("%w: trailing bytes after net record", ErrInvalidData)
	}
	return n, nil
}

// ToRecord projects a decoded NetRecord back into the in-process Record
// shape, e.g. for a collector process that receives UDP datagrams.
func (n NetRecord) ToRecord() Record {
	return Record{
		Level:      n.Level,
		Target:     n.Target,
		AuthToken:  n.AuthToken,
		AppID:      n.AppID,
		Message:    n.Message,
		ModulePath: n.ModulePath,
		File:       n.File,
		Line:       n.Line,
	}
}
