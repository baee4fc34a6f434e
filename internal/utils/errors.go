/*
 * Copyright 2022 ByteDance Inc.
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

package utils

import (
    `fmt`
)

// ConventionError occures when a function does not match the calling convention it declares.
type ConventionError struct {
    Func   string
    Conv   string
    Reason string
}

func (self ConventionError) Error() string {
    if self.Conv != "" {
        return fmt.Sprintf("ConventionError(@%s, %s): %s", self.Func, self.Conv, self.Reason)
    } else {
        return fmt.Sprintf("ConventionError(@%s): %s", self.Func, self.Reason)
    }
}

// FinalizeError occures when a lifted function cannot be finalized.
type FinalizeError struct {
    Func   string
    Reason string
}

func (self FinalizeError) Error() string {
    return fmt.Sprintf("FinalizeError(@%s): %s", self.Func, self.Reason)
}

func EConv(fn string, cc fmt.Stringer, reason string, args ...interface{}) ConventionError {
    return ConventionError {
        Func   : fn,
        Conv   : cc.String(),
        Reason : fmt.Sprintf(reason, args...),
    }
}

func EFinalize(fn string, reason string, args ...interface{}) FinalizeError {
    return FinalizeError {
        Func   : fn,
        Reason : fmt.Sprintf(reason, args...),
    }
}
