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

	"github.com/cloudwego/relift"
	"github.com/cloudwego/relift/debug"
	"github.com/cloudwego/relift/internal/atm/abi"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type demoCmd struct {
	cc       string
	noOpt    bool
	dot      bool
	logLevel string
}

func demoFlagSet(c *demoCmd) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.cc, "cc", "sptr", "calling convention of the sample function, `sptr` or `hhvm`")
	flags.BoolVar(&c.noOpt, "no-opt", false, "keep all the pack stores")
	flags.BoolVar(&c.dot, "dot", false, "print the lifted CFG in Graphviz format instead of LLVM IR")
	flags.StringVar(&c.logLevel, "log-level", "info", "log level of the lifter")
	return flags
}

func parseCallConv(s string) (relift.CallConv, error) {
	switch s {
	case "sptr":
		return relift.CallConvSPTR, nil
	case "hhvm":
		return relift.CallConvHHVM, nil
	default:
		return relift.CallConvInvalid, fmt.Errorf("unknown calling convention %q", s)
	}
}

// buildDemo lifts a counting loop calling an external function:
//
//	entry:  rax = 0
//	head:   if zf goto exit
//	body:   rax = rax + 1; call helper; goto head
//	exit:   return
func buildDemo(m *ir.Module, cc relift.CallConv, options ...relift.Option) (*relift.Function, error) {
	ft := cc.FnType(0)
	ps := make([]*ir.Param, len(ft.Params))
	for i, t := range ft.Params {
		ps[i] = ir.NewParam("", t)
	}

	helper := m.NewFunc("helper", ft.RetType, ps...)
	helper.CallingConv = cc.CallingConv()

	fn := relift.NewFunction(m, "demo", cc, options...)
	head := fn.NewBlock()
	body := fn.NewBlock()
	exit := fn.NewBlock()

	fn.Entry.RegFile().Set(abi.RAX, abi.FacetI64, constant.NewInt(types.I64, 0), true)
	fn.Entry.Branch(head)
	head.CondBranch(head.RegFile().Get(abi.ZF, abi.FacetI1), exit, body)

	rf := body.RegFile()
	rax := rf.InsertBlock().NewAdd(rf.Get(abi.RAX, abi.FacetI64), constant.NewInt(types.I64, 1))
	rf.Set(abi.RAX, abi.FacetI64, rax, true)
	cc.Call(helper, body, fn, false)
	body.Branch(head)
	cc.Return(exit, fn)

	if err := fn.Finalize(); err != nil {
		return nil, err
	}
	return fn, nil
}

func (c *demoCmd) writeStats(w io.Writer) {
	st := debug.GetStats()
	headerColor.Fprintln(w, "; statistics")
	fmt.Fprintf(w, "; functions: %d\n", st.Functions)
	fmt.Fprintf(w, "; packs: %d\n", st.Packs.Count)
	fmt.Fprintf(w, "; stores: %d emitted, %d eliminated\n", st.Packs.Stores, st.Packs.Eliminated)
}

func (c *demoCmd) run(cmd *cobra.Command, _ []string) error {
	cc, err := parseCallConv(c.cc)
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)

	m := ir.NewModule()
	fn, err := buildDemo(m, cc,
		relift.WithOptimizePacks(!c.noOpt),
		relift.WithVerifyCFG(true),
		relift.WithLogger(log.WithField("cc", cc.String())),
	)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if c.dot {
		_, err = fmt.Fprintln(w, fn.Dot())
		return err
	}

	if _, err = fmt.Fprintln(w, m.String()); err != nil {
		return err
	}
	c.writeStats(w)
	return nil
}

func getCmdDemo() *cobra.Command {
	c := &demoCmd{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Lift a sample function",
		Long:  `Lift a loop with a call and a return, then print the resulting LLVM IR or CFG.`,
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cmd.Flags().AddFlagSet(demoFlagSet(c))
	return cmd
}
