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

package udp

import (
	"net"
	"sync"
)

// connPool lazily dials a connected UDP socket per "host:port" destination
// and shares it across sends; sockets are bound to an ephemeral local port.
type connPool struct {
	mu    sync.Mutex
	conns map[string]*net.UDPConn
}

func newConnPool() *connPool {
	return &connPool{conns: make(map[string]*net.UDPConn)}
}

// get returns the pooled connection for dest ("host:port"), dialing one if
// absent.
func (p *connPool) get(dest string) (*net.UDPConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[dest]; ok {
		return conn, nil
	}

	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	p.conns[dest] = conn
	return conn, nil
}

// closeAll closes every pooled connection.
func (p *connPool) closeAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for dest, conn := range p.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, dest)
	}
	return firstErr
}
