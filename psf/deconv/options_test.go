package deconv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/wavelet"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"all", ModeAll, false},
		{"sparse", ModeSparse, false},
		{"lowr", ModeLowRank, false},
		{"grad", ModeGradOnly, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q): got %v, want ErrInvalidMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
		if got.String() != tt.in {
			t.Errorf("Mode(%v).String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"condat", MethodCondat, false},
		{"fwbw", MethodForwardBackward, false},
		{"gfwbw", MethodGenForwardBackward, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMethod) {
				t.Errorf("ParseMethod(%q): got %v, want ErrInvalidMethod", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.in, got, err)
		}
		if got.String() != tt.in {
			t.Errorf("Method(%v).String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}

func TestParseThresholdType(t *testing.T) {
	tests := []struct {
		in      string
		want    ThresholdType
		wantErr bool
	}{
		{"soft", ThresholdSoft, false},
		{"hard", ThresholdHard, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseThresholdType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("ParseThresholdType(%q): got %v, want ErrInvalidThreshold", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseThresholdType(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseLowRankType(t *testing.T) {
	tests := []struct {
		in      string
		want    LowRankType
		wantErr bool
	}{
		{"standard", LowRankStandard, false},
		{"ngole", LowRankNgole, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLowRankType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidLowRankType) {
				t.Errorf("ParseLowRankType(%q): got %v, want ErrInvalidLowRankType", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLowRankType(%q) = %v, %v", tt.in, got, err)
		}
		if got.String() != tt.in {
			t.Errorf("LowRankType(%v).String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}

func TestDefaultOptionsValid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"bogus psf type", func(o *Options) { o.PSFType = grid.PSFType(99) }, grid.ErrInvalidTag},
		{"bogus format", func(o *Options) { o.Format = grid.Format(99) }, grid.ErrInvalidTag},
		{"bogus mode", func(o *Options) { o.Mode = Mode(99) }, ErrInvalidMode},
		{"bogus method", func(o *Options) { o.Method = Method(99) }, ErrInvalidMethod},
		{"bogus threshold", func(o *Options) { o.LowRankThreshType = ThresholdType(99) }, ErrInvalidThreshold},
		{"bogus lowr type", func(o *Options) { o.LowRankType = LowRankType(99) }, ErrInvalidLowRankType},
		{"bogus wavelet", func(o *Options) { o.WaveletType = wavelet.Type(99) }, wavelet.ErrInvalidType},
		{"zero levels", func(o *Options) { o.WaveletLevels = 0 }, ErrInvalidOption},
		{"no factors", func(o *Options) { o.WaveThreshFactors = nil }, ErrInvalidOption},
		{"negative factor", func(o *Options) { o.WaveThreshFactors = []float64{3, -1} }, ErrInvalidOption},
		{"negative lowr factor", func(o *Options) { o.LowRankFactor = -1 }, ErrInvalidOption},
		{"negative reweights", func(o *Options) { o.NReweights = -1 }, ErrInvalidOption},
		{"zero iterations", func(o *Options) { o.NIter = 0 }, ErrInvalidOption},
		{"zero relax", func(o *Options) { o.Relax = 0 }, ErrInvalidOption},
		{"relax above one", func(o *Options) { o.Relax = 1.5 }, ErrInvalidOption},
		{"negative sigma", func(o *Options) { o.KernelSigma = -1 }, ErrInvalidOption},
		{"negative noise", func(o *Options) { o.NoiseEst = -1 }, ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWaveFactorBroadcast(t *testing.T) {
	opts := DefaultOptions()
	opts.WaveThreshFactors = []float64{3, 3, 4}

	tests := []struct {
		level int
		want  float64
	}{
		{0, 3},
		{1, 3},
		{2, 4},
		{3, 4},
		{7, 4},
	}

	for _, tt := range tests {
		if got := opts.waveFactor(tt.level); got != tt.want {
			t.Errorf("waveFactor(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
