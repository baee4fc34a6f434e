/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/relift/internal/atm/lift"
)

// A Stats records statistics about the lifter.
type Stats struct {
	Functions int
	Packs     PackStats
}

// A PackStats records statistics about the pack stores.
type PackStats struct {
	Count      int
	Stores     int
	Eliminated int
}

// GetStats returns statistics of the lifter.
func GetStats() Stats {
	return Stats{
		Functions: int(atomic.LoadUint32(&lift.FuncCount)),
		Packs: PackStats{
			Count:      int(atomic.LoadUint32(&lift.PackCount)),
			Stores:     int(atomic.LoadUint32(&lift.StoreCount)),
			Eliminated: int(atomic.LoadUint32(&lift.ElimCount)),
		},
	}
}
