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

package abi

import (
    `github.com/llir/llvm/ir/types`
)

// Facet is a view of a register with a specific width.
type Facet uint8

const (
    FacetInvalid Facet = iota
    FacetI64
    FacetI32
    FacetI16
    FacetI8
    FacetI8H
    FacetI1
    FacetI128
)

var _FacetNames = [...]string {
    FacetInvalid : "invalid",
    FacetI64     : "i64",
    FacetI32     : "i32",
    FacetI16     : "i16",
    FacetI8      : "i8",
    FacetI8H     : "i8h",
    FacetI1      : "i1",
    FacetI128    : "i128",
}

var _FacetBits = [...]int {
    FacetI64  : 64,
    FacetI32  : 32,
    FacetI16  : 16,
    FacetI8   : 8,
    FacetI8H  : 8,
    FacetI1   : 1,
    FacetI128 : 128,
}

func (self Facet) String() string {
    if int(self) < len(_FacetNames) {
        return _FacetNames[self]
    } else {
        return "invalid"
    }
}

// Bits is the width of the facet value.
func (self Facet) Bits() int {
    if self == FacetInvalid || int(self) >= len(_FacetBits) {
        panic("abi: width of invalid facet")
    } else {
        return _FacetBits[self]
    }
}

// Shift is the bit offset of the facet within the full register.
func (self Facet) Shift() int {
    if self == FacetI8H {
        return 8
    } else {
        return 0
    }
}

// Type returns the IR type of a value of this facet.
func (self Facet) Type() *types.IntType {
    switch self {
        case FacetI64  : return types.I64
        case FacetI32  : return types.I32
        case FacetI16  : return types.I16
        case FacetI8   : return types.I8
        case FacetI8H  : return types.I8
        case FacetI1   : return types.I1
        case FacetI128 : return types.I128
        default        : panic("abi: type of invalid facet")
    }
}
