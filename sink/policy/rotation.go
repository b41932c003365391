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

// Rotation describes the file sink's rotation and compression policy.
type Rotation struct {
	// MaxSizeMB rotates the active file once it exceeds this size. Zero
	// disables size-based rotation (only explicit Rotate commands fire).
	MaxSizeMB int

	// Compress turns on LZ4 compression of rotated files.
	Compress bool

	// MaxCompressedFiles bounds how many compressed archives the sink keeps
	// in its directory; the oldest are pruned first. Zero means unbounded.
	MaxCompressedFiles int
}
