/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/goks/generate"
	"github.com/notargets/goks/ks"
	"github.com/notargets/goks/torus"
)

type BenchModel struct {
	Symmetry   string
	N, M       int
	Iterations int
	Seed       uint64
	Profile    bool
	Jacobian   bool
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the flow evaluation and its matrix-free linearization",
	Long: `
Times Mapping, Matvec and Rmatvec over a random state of the requested
discretization, optionally under a CPU profile,

goks bench -s relative -n 64 -m 64 -i 200`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bench called")
		bm := &BenchModel{}
		bm.Symmetry, _ = cmd.Flags().GetString("symmetry")
		bm.N, _ = cmd.Flags().GetInt("n")
		bm.M, _ = cmd.Flags().GetInt("m")
		bm.Iterations, _ = cmd.Flags().GetInt("iterations")
		bm.Seed, _ = cmd.Flags().GetUint64("seed")
		bm.Profile, _ = cmd.Flags().GetBool("profile")
		bm.Jacobian, _ = cmd.Flags().GetBool("jacobian")
		RunBench(bm)
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("symmetry", "s", "full", "symmetry variant: full, relative, shiftrefl, antisym, eqva")
	BenchCmd.Flags().IntP("n", "n", 64, "time discretization N")
	BenchCmd.Flags().IntP("m", "m", 64, "space discretization M")
	BenchCmd.Flags().IntP("iterations", "i", 100, "iterations per timed operation")
	BenchCmd.Flags().Uint64("seed", 1, "random seed for the benchmark state")
	BenchCmd.Flags().Bool("profile", false, "write a CPU profile to the working directory")
	BenchCmd.Flags().Bool("jacobian", false, "also time one dense Jacobian assembly")
}

func RunBench(bm *BenchModel) {
	var (
		err error
	)
	sym, err := torus.ParseSymmetry(bm.Symmetry)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	tor, err := generate.RandomTorus(sym, bm.N, bm.M, 0, 0, generate.Options{Seed: bm.Seed})
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	tan, err := generate.RandomTorus(sym, tor.N, tor.M, tor.T, tor.L,
		generate.Options{Seed: bm.Seed + 1})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s\n", tor.String())
	if bm.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	none := torus.Fixed{}
	start := time.Now()
	for i := 0; i < bm.Iterations; i++ {
		if _, err = ks.Mapping(tor); err != nil {
			panic(err)
		}
	}
	reportTiming("Mapping", time.Since(start), bm.Iterations)
	start = time.Now()
	for i := 0; i < bm.Iterations; i++ {
		if _, err = ks.Matvec(tor, tan, none, false); err != nil {
			panic(err)
		}
	}
	reportTiming("Matvec", time.Since(start), bm.Iterations)
	start = time.Now()
	for i := 0; i < bm.Iterations; i++ {
		if _, err = ks.Rmatvec(tor, tan, none, false); err != nil {
			panic(err)
		}
	}
	reportTiming("Rmatvec", time.Since(start), bm.Iterations)
	if bm.Jacobian {
		start = time.Now()
		J, err := ks.Jacobian(tor, none)
		if err != nil {
			panic(err)
		}
		nr, nc := J.Dims()
		fmt.Printf("%8.3f ms\t= Jacobian assembly (%d x %d)\n",
			1e3*time.Since(start).Seconds(), nr, nc)
		left, right, err := ks.Preconditioner(tor, none)
		if err != nil {
			panic(err)
		}
		Jp := J.Copy().ElMul(left).ElMul(right)
		fmt.Printf("%12.4e -> %12.4e\t= condition number (raw -> preconditioned)\n",
			J.ConditionNumber(), Jp.ConditionNumber())
	}
}

func reportTiming(name string, el time.Duration, iters int) {
	fmt.Printf("%8.3f ms/op\t= %s (%d iterations)\n",
		1e3*el.Seconds()/float64(iters), name, iters)
}
