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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notargets/goks/ks"
	"github.com/notargets/goks/persist"
)

type ResampleModel struct {
	InFile  string
	OutFile string
	N, M    int
}

// ResampleCmd represents the resample command
var ResampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Change the discretization of a saved solution",
	Long: `
Loads a solution, pads or truncates its spacetime modes onto a new N x M
grid and saves the result,

goks resample -f full_L22p00_T20p00.yaml -n 64 -m 64`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("resample called")
		rm := &ResampleModel{}
		if rm.InFile, err = cmd.Flags().GetString("solutionFile"); err != nil {
			panic(err)
		}
		rm.OutFile, _ = cmd.Flags().GetString("outFile")
		rm.N, _ = cmd.Flags().GetInt("n")
		rm.M, _ = cmd.Flags().GetInt("m")
		if len(rm.InFile) == 0 {
			fmt.Printf("error: must supply a solution file (-f, --solutionFile)\n")
			os.Exit(1)
		}
		if rm.N == 0 && rm.M == 0 {
			fmt.Printf("error: must supply a new time (-n) or space (-m) discretization\n")
			os.Exit(1)
		}
		RunResample(rm)
	},
}

func init() {
	rootCmd.AddCommand(ResampleCmd)
	ResampleCmd.Flags().StringP("solutionFile", "f", "", "YAML solution file to resample")
	ResampleCmd.Flags().StringP("outFile", "o", "", "output file (default derived next to the input)")
	ResampleCmd.Flags().IntP("n", "n", 0, "new time discretization, 0 keeps the current N")
	ResampleCmd.Flags().IntP("m", "m", 0, "new space discretization, 0 keeps the current M")
}

func RunResample(rm *ResampleModel) {
	var (
		err error
	)
	rec, err := persist.Load(rm.InFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	tor, err := persist.ToTorus(rec)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if rm.N == 0 {
		rm.N = tor.N
	}
	if rm.M == 0 {
		rm.M = tor.M
	}
	before, err := ks.Residual(tor)
	if err != nil {
		panic(err)
	}
	resized, err := tor.Rediscretize(rm.N, rm.M)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	after, err := ks.Residual(resized)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d x %d -> %d x %d\t= N x M\n", tor.N, tor.M, resized.N, resized.M)
	fmt.Printf("%12.6e -> %12.6e\t= residual\n", before, after)

	out, err := persist.FromTorus(resized)
	if err != nil {
		panic(err)
	}
	path := rm.OutFile
	if len(path) == 0 {
		path = filepath.Join(filepath.Dir(rm.InFile), out.Filename())
		if path == rm.InFile {
			fmt.Printf("error: refusing to overwrite %s, supply -o\n", rm.InFile)
			os.Exit(1)
		}
	}
	if err = persist.Save(path, out); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	slog.Info("wrote resampled solution", "path", path, "n", rm.N, "m", rm.M)
}
