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

package relift

import (
	"strings"
	"testing"

	"github.com/cloudwego/relift/internal/atm/abi"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelift_Options(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	/* lift a function returning a constant in RAX */
	m := ir.NewModule()
	fn := NewFunction(m, "answer", CallConvHHVM, WithVerifyCFG(true), WithOptimizePacks(true), WithLogger(log))
	fn.Entry.RegFile().Set(abi.RAX, abi.FacetI64, constant.NewInt(types.I64, 42), true)
	fn.CC.Return(fn.Entry, fn)
	require.NoError(t, fn.Finalize())
	assert.Equal(t, CallConvHHVM, Resolve(fn.Fn))
	assert.NoError(t, Check(fn.Fn))

	/* nothing but the host registers is dirty, so no store is left */
	assert.Equal(t, 0, fn.Packs[0].Len())
	assert.False(t, strings.Contains(m.String(), "store "))

	/* the eliminator reports its results */
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "answer", hook.LastEntry().Data["func"])
	assert.Equal(t, abi.NumEntries-1-abi.HHVMHostGP, hook.LastEntry().Data["eliminated"])
}

func TestRelift_SetDefaults(t *testing.T) {
	old := SetOptimizePacks(false)
	defer SetOptimizePacks(old)
	fn := NewFunction(ir.NewModule(), "noopt", CallConvSPTR)
	fn.CC.Return(fn.Entry, fn)
	require.NoError(t, fn.Finalize())
	assert.Equal(t, abi.NumEntries, fn.Packs[0].Len())
	assert.Panics(t, func() { WithLogger(nil) })
}

func TestRelift_Errors(t *testing.T) {
	m := ir.NewModule()
	fn := m.NewFunc("bad", types.Void, ir.NewParam("x", types.I64))
	err := Check(fn)
	require.Error(t, err)
	assert.IsType(t, ConventionError{}, err)
	assert.Equal(t, CallConvInvalid, Resolve(fn))
	assert.Contains(t, err.Error(), "ConventionError(@bad, sptr)")
}
