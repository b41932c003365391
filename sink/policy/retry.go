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

package policy

import (
	"fmt"
	"time"
)

// Retry describes the UDP sink's send-retry policy. Unlike a general
// exponential backoff, the network sink always waits a fixed interval
// between attempts; only the attempt count is configurable.
type Retry struct {
	// Count is the number of send attempts for one datagram, including the
	// first. Must be in [1, 10].
	Count int

	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
}

// DefaultRetry is the retry policy a UDP sink uses when none is given.
func DefaultRetry() Retry {
	return Retry{Count: 3, Backoff: 100 * time.Millisecond}
}

// Validate enforces Count's bounds.
func (r Retry) Validate() error {
	if r.Count < 1 || r.Count > 10 {
		return fmt.Errorf("sink/policy: retry count must be in [1, 10], got %d", r.Count)
	}
	return nil
}
