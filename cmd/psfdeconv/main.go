// Command psfdeconv restores a noisy image or image stack blurred by a
// known PSF.
//
// Usage:
//
//	psfdeconv -input noisy.txt -psf psf.txt -output restored.txt [flags]
//
// Input files are plain text: one row of space-separated values per
// line, planes separated by blank lines.
//
// Examples:
//
//	psfdeconv -input data.txt -psf psf.txt -output out.txt
//	psfdeconv -input data.txt -psf psf.txt -output out.txt -mode sparse -n_iter 300
//	psfdeconv -input map.txt -psf kernel.txt -output out.txt -data_format map -psf_type fixed
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-psf/internal/gridio"
	"github.com/cwbudde/algo-psf/psf/deconv"
	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/wavelet"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "input noisy data file (required)")
		psfPath    = flag.String("psf", "", "PSF file (required)")
		outputPath = flag.String("output", "", "output file (required)")
		resumePath = flag.String("current_res", "", "previous result file used as the starting estimate")
		cleanPath  = flag.String("clean_data", "", "clean reference file for error reporting")

		psfType    = flag.String("psf_type", "obj_var", "PSF type: fixed or obj_var")
		dataFormat = flag.String("data_format", "cube", "data format: map or cube")
		mode       = flag.String("mode", "lowr", "optimization mode: all, sparse, lowr or grad")
		optType    = flag.String("opt_type", "condat", "optimization method: condat, fwbw or gfwbw")

		waveletLevels = flag.Int("wavelet_levels", 3, "number of wavelet levels")
		waveletType   = flag.String("wavelet_type", "starlet", "wavelet type: starlet")
		waveFactors   = flag.String("wave_thresh_factor", "3,3,4", "comma-separated wavelet threshold factors")
		lowrFactor    = flag.Float64("lowr_thresh_factor", 1, "low-rank threshold factor")
		lowrThreshTy  = flag.String("lowr_thresh_type", "soft", "low-rank threshold type: soft or hard")
		lowrType      = flag.String("lowr_type", "standard", "low-rank type: standard or ngole")

		nReweights = flag.Int("n_reweights", 1, "number of reweighting passes")
		nIter      = flag.Int("n_iter", 150, "number of iterations")
		relax      = flag.Float64("relax", 0.8, "relaxation parameter")
		kernel     = flag.Float64("kernel", 0, "sigma for Gaussian kernel smoothing of the PSF (0 = off)")
		noiseEst   = flag.Float64("noise_est", 0, "noise estimate (0 = estimate from data)")
		seed       = flag.Int64("random_seed", 1, "random seed")

		noPos  = flag.Bool("no_pos", false, "turn off positivity constraint")
		noGrad = flag.Bool("no_grad", false, "turn off gradient calculation")
	)

	flag.Parse()

	if *inputPath == "" || *psfPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "psfdeconv: -input, -psf and -output are required")
		flag.Usage()
		os.Exit(2)
	}

	opts := deconv.DefaultOptions()
	opts.WaveletLevels = *waveletLevels
	opts.LowRankFactor = *lowrFactor
	opts.NReweights = *nReweights
	opts.NIter = *nIter
	opts.Relax = *relax
	opts.KernelSigma = *kernel
	opts.NoiseEst = *noiseEst
	opts.Seed = *seed
	opts.Positivity = !*noPos
	opts.Gradient = !*noGrad

	var err error
	if opts.PSFType, err = grid.ParsePSFType(*psfType); err != nil {
		fatalf("bad -psf_type %q: %v", *psfType, err)
	}
	if opts.Format, err = grid.ParseFormat(*dataFormat); err != nil {
		fatalf("bad -data_format %q: %v", *dataFormat, err)
	}
	if opts.Mode, err = deconv.ParseMode(*mode); err != nil {
		fatalf("bad -mode %q: %v", *mode, err)
	}
	if opts.Method, err = deconv.ParseMethod(*optType); err != nil {
		fatalf("bad -opt_type %q: %v", *optType, err)
	}
	if opts.LowRankThreshType, err = deconv.ParseThresholdType(*lowrThreshTy); err != nil {
		fatalf("bad -lowr_thresh_type %q: %v", *lowrThreshTy, err)
	}
	if opts.LowRankType, err = deconv.ParseLowRankType(*lowrType); err != nil {
		fatalf("bad -lowr_type %q: %v", *lowrType, err)
	}
	if opts.WaveletType, err = wavelet.ParseType(*waveletType); err != nil {
		fatalf("bad -wavelet_type %q: %v", *waveletType, err)
	}
	if opts.WaveThreshFactors, err = parseFactors(*waveFactors); err != nil {
		fatalf("bad -wave_thresh_factor %q: %v", *waveFactors, err)
	}

	data, err := gridio.ReadFile(*inputPath)
	if err != nil {
		fatalf("reading %s: %v", *inputPath, err)
	}
	psf, err := gridio.ReadFile(*psfPath)
	if err != nil {
		fatalf("reading %s: %v", *psfPath, err)
	}
	if *resumePath != "" {
		if opts.WarmStart, err = gridio.ReadFile(*resumePath); err != nil {
			fatalf("reading %s: %v", *resumePath, err)
		}
	}

	res, err := deconv.Deconvolve(data, psf, opts)
	if err != nil {
		fatalf("deconvolution failed: %v", err)
	}

	if err := gridio.WriteFile(*outputPath, res.X); err != nil {
		fatalf("writing %s: %v", *outputPath, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "data\t%dx%dx%d\n", data.Width, data.Height, data.Planes)
	fmt.Fprintf(tw, "mode\t%s\n", opts.Mode)
	fmt.Fprintf(tw, "method\t%s\n", opts.Method)
	fmt.Fprintf(tw, "iterations\t%d\n", res.Iterations)
	fmt.Fprintf(tw, "spectral norm\t%.6g\n", res.SpectralNorm)
	fmt.Fprintf(tw, "noise sigma\t%.6g\n", res.NoiseSigma)
	fmt.Fprintf(tw, "final residual\t%.6g\n", res.Residual)
	if *cleanPath != "" {
		clean, err := gridio.ReadFile(*cleanPath)
		if err != nil {
			fatalf("reading %s: %v", *cleanPath, err)
		}
		recErr, err := deconv.RecoveryError(res.X, clean)
		if err != nil {
			fatalf("comparing against %s: %v", *cleanPath, err)
		}
		fmt.Fprintf(tw, "recovery error\t%.6g\n", recErr)
	}
	tw.Flush()
}

func parseFactors(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "psfdeconv: "+format+"\n", args...)
	os.Exit(1)
}
