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

package health

import (
	"context"
	"fmt"
	"time"
)

// WorkerPing builds a Checker that round-trips a health-check request to a
// sink worker's command channel and waits on reply for at most timeout. It
// is the Checker a dispatch.Manager registers per sink into an Aggregator.
//
// send must deliver the health-check request (enqueuing a HealthCheck
// command) and is expected to be non-blocking or nearly so; the actual wait
// happens on reply.
func WorkerPing(sinkName string, timeout time.Duration, send func() <-chan bool) Checker {
	return CheckFunc(func(ctx context.Context) (Result, error) {
		reply := send()

		deadline := time.NewTimer(timeout)
		defer deadline.Stop()

		select {
		case alive, ok := <-reply:
			if !ok || !alive {
				return Result{Name: sinkName, Status: StatusUnhealthy}, fmt.Errorf("sink %q did not confirm liveness", sinkName)
			}
			return Result{Name: sinkName, Status: StatusHealthy}, nil
		case <-deadline.C:
			return Result{Name: sinkName, Status: StatusUnhealthy}, fmt.Errorf("sink %q health check timed out after %s", sinkName, timeout)
		case <-ctx.Done():
			return Result{Name: sinkName, Status: StatusUnknown}, ctx.Err()
		}
	})
}
