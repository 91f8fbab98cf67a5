package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/goks/generate"
	"github.com/notargets/goks/torus"
)

// Parameters obtained from the YAML input file
type InputParametersKS struct {
	Title      string  `yaml:"Title"`
	Symmetry   string  `yaml:"Symmetry"`
	N          int     `yaml:"N"`
	M          int     `yaml:"M"`
	T          float64 `yaml:"T"`
	L          float64 `yaml:"L"`
	S          float64 `yaml:"S"`
	FixedT     bool    `yaml:"FixedT"`
	FixedL     bool    `yaml:"FixedL"`
	FixedS     bool    `yaml:"FixedS"`
	Seed       uint64  `yaml:"Seed"`
	TimeScale  int     `yaml:"TimeScale"`
	SpaceScale int     `yaml:"SpaceScale"`
	Spectrum   string  `yaml:"Spectrum"` // "plateau" (default) or "gaussian"
	Amplitude  float64 `yaml:"Amplitude"`
	Archive    string  `yaml:"Archive"`
	OutputDir  string  `yaml:"OutputDir"`
	CreateDirs bool    `yaml:"CreateDirs"`
}

func (ip *InputParametersKS) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersKS) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Symmetry\n", ip.Symmetry)
	fmt.Printf("%d x %d\t\t= N x M\n", ip.N, ip.M)
	fmt.Printf("%8.5f\t\t= T\n", ip.T)
	fmt.Printf("%8.5f\t\t= L\n", ip.L)
	fmt.Printf("%8.5f\t\t= S\n", ip.S)
	fmt.Printf("[%v %v %v]\t= Fixed T, L, S\n", ip.FixedT, ip.FixedL, ip.FixedS)
	fmt.Printf("[%d]\t\t\t= Seed\n", ip.Seed)
	fmt.Printf("[%s]\t\t= Spectrum\n", ip.Spectrum)
	if ip.Archive != "" {
		fmt.Printf("[%s]\t= Archive\n", ip.Archive)
	}
}

// SymmetryType resolves the Symmetry field against the torus enum. An empty
// field selects FULL.
func (ip *InputParametersKS) SymmetryType() (torus.Symmetry, error) {
	if ip.Symmetry == "" {
		return torus.Full, nil
	}
	return torus.ParseSymmetry(ip.Symmetry)
}

// Fixed collects the held-parameter flags.
func (ip *InputParametersKS) Fixed() torus.Fixed {
	return torus.Fixed{T: ip.FixedT, L: ip.FixedL, S: ip.FixedS}
}

// GenerateOptions maps the seeding fields onto generate.Options.
func (ip *InputParametersKS) GenerateOptions() (opts generate.Options, err error) {
	opts = generate.Options{
		TimeScale:  ip.TimeScale,
		SpaceScale: ip.SpaceScale,
		Amplitude:  ip.Amplitude,
		Seed:       ip.Seed,
	}
	switch ip.Spectrum {
	case "", "plateau":
		opts.Spectrum = generate.Plateau
	case "gaussian":
		opts.Spectrum = generate.GaussianBump
	default:
		err = fmt.Errorf("unknown spectrum %q", ip.Spectrum)
	}
	return
}
