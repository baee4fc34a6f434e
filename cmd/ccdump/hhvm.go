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
	"fmt"
	"text/tabwriter"

	"github.com/cloudwego/relift/internal/atm/abi"
	"github.com/spf13/cobra"
)

func hhvmRegisters() []abi.Reg {
	ret := []abi.Reg{abi.RIP}
	for i := 0; i < abi.HHVMHostGP; i++ {
		ret = append(ret, abi.GP(i))
	}
	return ret
}

func runHHVM(cmd *cobra.Command, _ []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "GUEST\tPARAM\tHOST\tFIELD\tHOST\t")

	for _, r := range hhvmRegisters() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t\n",
			r, abi.ArgIndex(r), abi.HostArgRegister(r), abi.RetIndex(r), abi.HostRetRegister(r))
	}

	fmt.Fprintf(tw, "\nstruct pointer in param 1 (%s), field %d (%s) is undefined\n",
		abi.HostArgRegisters[1], abi.HHVMRetPlaceholder, abi.HostRetRegisters[abi.HHVMRetPlaceholder])
	return tw.Flush()
}

func getCmdHHVM() *cobra.Command {
	return &cobra.Command{
		Use:   "hhvm",
		Short: "Show the HHVM register mapping",
		Long:  `Show the parameter and return field carrying each host mapped register under the HHVM calling convention.`,
		Args:  cobra.NoArgs,
		RunE:  runHHVM,
	}
}
