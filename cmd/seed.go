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
	"io/ioutil"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/goks/InputParameters"
	"github.com/notargets/goks/generate"
	"github.com/notargets/goks/ks"
	"github.com/notargets/goks/persist"
	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

type SeedModel struct {
	ParamFile string
	OutFile   string
	Count     int
	Workers   int
}

// SeedCmd represents the seed command
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Draw random spectral tori, report their residuals and save them",
	Long: `
Draws random Kuramoto-Sivashinsky states with the requested symmetry and
discretization, shaped by a modal envelope, and writes them as YAML solution
files and/or archive rows,

goks seed -I params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("seed called")
		sm := &SeedModel{}
		if sm.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		sm.OutFile, _ = cmd.Flags().GetString("outFile")
		sm.Count, _ = cmd.Flags().GetInt("count")
		sm.Workers, _ = cmd.Flags().GetInt("workers")
		if sm.Count > 1 && len(sm.OutFile) != 0 {
			fmt.Printf("error: -o names a single output file, drop it or use --count 1\n")
			os.Exit(1)
		}
		ip := processSeedInput(sm, cmd)
		RunSeed(sm, ip)
	},
}

func processSeedInput(sm *SeedModel, cmd *cobra.Command) (ip *InputParameters.InputParametersKS) {
	var (
		err error
	)
	ip = &InputParameters.InputParametersKS{}
	if len(sm.ParamFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(sm.ParamFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Seed Case"
Symmetry: shiftrefl # full, relative, shiftrefl, antisym, eqva
N: 32
M: 32
T: 20.
L: 22.
Seed: 7
Spectrum: plateau # Can be "gaussian"
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	} else {
		ip.Symmetry, _ = cmd.Flags().GetString("symmetry")
		ip.N, _ = cmd.Flags().GetInt("n")
		ip.M, _ = cmd.Flags().GetInt("m")
		ip.T, _ = cmd.Flags().GetFloat64("T")
		ip.L, _ = cmd.Flags().GetFloat64("L")
		ip.S, _ = cmd.Flags().GetFloat64("S")
		ip.Seed, _ = cmd.Flags().GetUint64("seed")
		ip.TimeScale, _ = cmd.Flags().GetInt("timeScale")
		ip.SpaceScale, _ = cmd.Flags().GetInt("spaceScale")
		ip.Spectrum, _ = cmd.Flags().GetString("spectrum")
		ip.Amplitude, _ = cmd.Flags().GetFloat64("amplitude")
		ip.Archive, _ = cmd.Flags().GetString("archive")
		ip.CreateDirs, _ = cmd.Flags().GetBool("createDirs")
	}
	// Config file values back any field the flags and the parameter file
	// left empty.
	if len(ip.Archive) == 0 {
		ip.Archive = viper.GetString("archive")
	}
	if len(ip.OutputDir) == 0 {
		ip.OutputDir = viper.GetString("outputDir")
	}
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(SeedCmd)
	SeedCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- Symmetry\n\t- N, M\n\t- T, L")
	SeedCmd.Flags().StringP("outFile", "o", "", "output solution file (default derived from symmetry and periods)")
	SeedCmd.Flags().StringP("symmetry", "s", "full", "symmetry variant: full, relative, shiftrefl, antisym, eqva")
	SeedCmd.Flags().IntP("n", "n", 0, "time discretization N, 0 picks a power of two from T")
	SeedCmd.Flags().IntP("m", "m", 0, "space discretization M, 0 picks a power of two from L")
	SeedCmd.Flags().Float64("T", 0, "time period, 0 draws uniform in [20, 120)")
	SeedCmd.Flags().Float64("L", 0, "space period, 0 draws uniform in [22, 66)")
	SeedCmd.Flags().Float64("S", 0, "comoving shift for the relative variant, 0 draws a random fraction of L")
	SeedCmd.Flags().Uint64("seed", 0, "random seed, 0 uses the clock")
	SeedCmd.Flags().Int("timeScale", 0, "temporal harmonics kept by the envelope, 0 keeps all")
	SeedCmd.Flags().Int("spaceScale", 0, "spatial plateau width of the envelope, 0 keeps all")
	SeedCmd.Flags().String("spectrum", "plateau", "modal envelope: plateau or gaussian")
	SeedCmd.Flags().Float64("amplitude", 0, "extremum of the renormalized field, 0 selects 4")
	SeedCmd.Flags().StringP("archive", "a", "", "SQLite archive to insert the solutions into")
	SeedCmd.Flags().Bool("createDirs", false, "create missing output directories")
	SeedCmd.Flags().IntP("count", "c", 1, "number of independent draws")
	SeedCmd.Flags().IntP("workers", "w", 1, "goroutines drawing states, capped at count")
}

type seedResult struct {
	rec persist.Record
	res float64
	err error
}

func RunSeed(sm *SeedModel, ip *InputParameters.InputParametersKS) {
	var (
		err error
	)
	sym, err := ip.SymmetryType()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	opts, err := ip.GenerateOptions()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if opts.Seed == 0 {
		// Draws must not share a clock seed when they run concurrently.
		opts.Seed = uint64(time.Now().UnixNano())
	}
	if sm.Count < 1 {
		sm.Count = 1
	}
	workers := sm.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > sm.Count {
		workers = sm.Count
	}
	draw := func(i int) seedResult {
		o := opts
		o.Seed += uint64(i)
		tor, err := generate.RandomTorus(sym, ip.N, ip.M, ip.T, ip.L, o)
		if err != nil {
			return seedResult{err: err}
		}
		if ip.S != 0 && sym == torus.Relative {
			tor.S = ip.S
		}
		res, err := ks.Residual(tor)
		if err != nil {
			return seedResult{err: err}
		}
		rec, err := persist.FromTorus(tor)
		return seedResult{rec: rec, res: res, err: err}
	}
	results := make([]seedResult, sm.Count)
	if workers == 1 {
		for i := range results {
			results[i] = draw(i)
		}
	} else {
		// Draws are independent whole states, so they fan out over an even
		// partition of the count.
		pm := utils.NewPartitionMap(workers, sm.Count)
		var wg sync.WaitGroup
		for n := 0; n < workers; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				lo, hi := pm.GetBucketRange(n)
				for i := lo; i < hi; i++ {
					results[i] = draw(i)
				}
			}(n)
		}
		wg.Wait()
	}

	if ip.CreateDirs && len(ip.OutputDir) != 0 {
		if err = os.MkdirAll(ip.OutputDir, 0755); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	var arch *persist.Archive
	if len(ip.Archive) != 0 {
		if arch, err = persist.OpenArchive(ip.Archive); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		defer arch.Close()
	}
	for i, r := range results {
		if r.err != nil {
			fmt.Printf("error: %s\n", r.err.Error())
			os.Exit(1)
		}
		fmt.Printf("[%s] %dx%d T=%.4f L=%.4f S=%.4f\n",
			r.rec.Symmetry, r.rec.N, r.rec.M, r.rec.T, r.rec.L, r.rec.S)
		fmt.Printf("%12.6e\t= residual\n", r.res)
		name := r.rec.Filename()
		if sm.Count > 1 {
			name = fmt.Sprintf("%03d_%s", i, name)
		}
		path := sm.OutFile
		if len(path) == 0 {
			path = filepath.Join(ip.OutputDir, name)
		}
		if err = persist.Save(path, r.rec); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		slog.Info("wrote solution", "path", path, "residual", r.res)
		if arch != nil {
			id, err := arch.Put(r.rec)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			slog.Info("archived solution", "id", id, "archive", ip.Archive)
		}
	}
	fmt.Printf("%d solutions written\n", sm.Count)
}
