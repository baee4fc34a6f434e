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
	"io"
	"text/tabwriter"

	"github.com/cloudwego/relift/internal/atm/abi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type layoutEntry struct {
	Slot   int    `yaml:"slot"`
	Offset string `yaml:"offset"`
	Size   int    `yaml:"size"`
	Reg    string `yaml:"register"`
	Facet  string `yaml:"facet"`
	Type   string `yaml:"type"`
	Host   bool   `yaml:"host_mapped"`
}

type layoutDump struct {
	StructSize int           `yaml:"struct_size"`
	Entries    []layoutEntry `yaml:"entries"`
}

type layoutCmd struct {
	format string
}

func layoutFlagSet(c *layoutCmd) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVarP(&c.format, "format", "f", "table", "output format, one of `table` or `yaml`")
	return flags
}

func getLayout() layoutDump {
	ret := layoutDump{StructSize: abi.StructSize}
	for _, e := range abi.Entries() {
		ret.Entries = append(ret.Entries, layoutEntry{
			Slot:   e.Slot,
			Offset: fmt.Sprintf("0x%03x", e.Offset),
			Size:   int(e.Size()),
			Reg:    e.Reg.String(),
			Facet:  e.Facet.String(),
			Type:   e.Facet.Type().LLString(),
			Host:   abi.IsHostMapped(e.Reg),
		})
	}
	return ret
}

func (c *layoutCmd) writeTable(w io.Writer, l layoutDump) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "SLOT\tOFFSET\tSIZE\tREGISTER\tFACET\tTYPE\t")

	for _, e := range l.Entries {
		reg := e.Reg
		if e.Host {
			reg = hostColor.Sprint(reg)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t\n", e.Slot, e.Offset, e.Size, reg, e.Facet, e.Type)
	}

	fmt.Fprintf(tw, "\nstruct size: %#x\n", l.StructSize)
	return tw.Flush()
}

func (c *layoutCmd) run(cmd *cobra.Command, _ []string) error {
	l := getLayout()
	w := cmd.OutOrStdout()

	switch c.format {
	case "table":
		return c.writeTable(w, l)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to encode the layout: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
}

func getCmdLayout() *cobra.Command {
	c := &layoutCmd{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the CPU state struct layout",
		Long:  `Show every register facet stored in the CPU state struct, with its slot and offset.`,
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cmd.Flags().AddFlagSet(layoutFlagSet(c))
	return cmd
}
