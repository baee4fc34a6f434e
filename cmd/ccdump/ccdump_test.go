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

package main

import (
	"bytes"
	"testing"

	"github.com/cloudwego/relift"
	"github.com/cloudwego/relift/internal/atm/abi"
	"github.com/llir/llvm/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLayout_YAML(t *testing.T) {
	out, err := execute(t, "layout", "--format", "yaml")
	require.NoError(t, err)

	var l layoutDump
	require.NoError(t, yaml.Unmarshal([]byte(out), &l))
	assert.Equal(t, abi.StructSize, l.StructSize)
	require.Len(t, l.Entries, abi.NumEntries)
	assert.Equal(t, "rip", l.Entries[0].Reg)
	assert.Equal(t, "0x008", l.Entries[1].Offset)
	assert.Equal(t, "i128", l.Entries[abi.NumEntries-1].Type)
	assert.True(t, l.Entries[1].Host)
}

func TestLayout_Table(t *testing.T) {
	out, err := execute(t, "layout")
	require.NoError(t, err)
	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "xmm15")

	_, err = execute(t, "layout", "--format", "json")
	assert.Error(t, err)
}

func TestHHVM_Table(t *testing.T) {
	out, err := execute(t, "hhvm")
	require.NoError(t, err)
	assert.Contains(t, out, "GUEST")
	assert.Contains(t, out, "r11")
}

func TestDemo(t *testing.T) {
	for _, cc := range []string{"sptr", "hhvm"} {
		out, err := execute(t, "demo", "--cc", cc, "--log-level", "error")
		require.NoError(t, err, cc)
		assert.Contains(t, out, "define")
		assert.Contains(t, out, "; statistics")
	}

	out, err := execute(t, "demo", "--dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph CFG")

	_, err = execute(t, "demo", "--cc", "fastcc")
	assert.Error(t, err)
}

func TestDemo_Stores(t *testing.T) {
	fn, err := buildDemo(ir.NewModule(), relift.CallConvSPTR, relift.WithOptimizePacks(true))
	require.NoError(t, err)
	require.Len(t, fn.Packs, 2)

	/* only RAX is ever dirty */
	for _, pk := range fn.Packs {
		assert.Equal(t, 1, pk.Len(), pk.String())
	}
}
