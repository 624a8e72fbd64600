package poh

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/heliochain/go-helios/helios"
)

var (
	ErrInvalidTickRate     = errors.New("invalid hashes-per-tick value")
	ErrCalibrationTimeout  = errors.New("tick rate calibration exceeded its time budget")
	ErrCalibrationUnstable = errors.New("tick rate calibration measurements too unstable")
)

// Mode selects how the hashes-per-tick density is determined.
type Mode struct {
	kind  modeKind
	fixed uint64
}

type modeKind uint8

const (
	modeFixed modeKind = iota
	modeAuto
	modeSleep
)

// FixedMode pins the density to n.
func FixedMode(n uint64) Mode {
	return Mode{kind: modeFixed, fixed: n}
}

// AutoMode benchmarks the host (development clusters) or applies the
// cluster default.
func AutoMode() Mode {
	return Mode{kind: modeAuto}
}

// SleepMode disables hashing density; ticks are paced by sleeping. Only
// sensible for development.
func SleepMode() Mode {
	return Mode{kind: modeSleep}
}

// ParseMode parses the --hashes-per-tick spelling: a number, "auto" or
// "sleep".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return AutoMode(), nil
	case "sleep":
		return SleepMode(), nil
	default:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Mode{}, fmt.Errorf("%w: %q", ErrInvalidTickRate, s)
		}
		return FixedMode(n), nil
	}
}

// String returns the command-line spelling of the mode.
func (m Mode) String() string {
	switch m.kind {
	case modeAuto:
		return "auto"
	case modeSleep:
		return "sleep"
	default:
		return strconv.FormatUint(m.fixed, 10)
	}
}

// BenchmarkFunc measures how long the host takes to roll sampleSize
// chained hashes. Injected so tests can substitute a fixed result.
type BenchmarkFunc func(ctx context.Context, sampleSize uint64) (time.Duration, error)

// Calibrator resolves a Mode into a concrete hashes-per-tick density.
// The density is frozen into genesis for the cluster's entire lifetime,
// so auto mode insists on stable measurements and fails otherwise.
type Calibrator struct {
	// Bench is the measurement strategy; DefaultBenchmark if nil.
	Bench BenchmarkFunc

	// TargetTickDuration is the wall-clock length one tick should take.
	TargetTickDuration time.Duration

	// SampleSize is the number of hashes rolled per measurement.
	SampleSize uint64

	// Budget bounds the total wall-clock time of calibration.
	Budget time.Duration

	// MaxSpreadPercent is the allowed relative spread between repeated
	// measurements before the host is declared unsuitable.
	MaxSpreadPercent uint64

	// Samples is the number of measurements per attempt; Retries is how
	// many noisy attempts are tolerated before giving up.
	Samples int
	Retries int
}

// NewCalibrator returns a calibrator with the default measurement policy.
func NewCalibrator(targetTickDuration time.Duration) *Calibrator {
	return &Calibrator{
		Bench:              DefaultBenchmark,
		TargetTickDuration: targetTickDuration,
		SampleSize:         1_000_000,
		Budget:             30 * time.Second,
		MaxSpreadPercent:   25,
		Samples:            3,
		Retries:            2,
	}
}

// Resolve determines hashes-per-tick for the mode and cluster type. The
// returned value 0 means low power (sleep) mode.
func (c *Calibrator) Resolve(mode Mode, clusterType helios.ClusterType) (uint64, error) {
	switch mode.kind {
	case modeFixed:
		if mode.fixed == 0 {
			return 0, fmt.Errorf("%w: 0", ErrInvalidTickRate)
		}
		return mode.fixed, nil

	case modeSleep:
		return 0, nil

	case modeAuto:
		if clusterType != helios.Development {
			// production-like clusters share one canonical density
			return helios.DefaultHashesPerTick, nil
		}
		return c.calibrate()

	default:
		return 0, ErrInvalidTickRate
	}
}

// calibrate benchmarks the host and derives the density from the
// measured hash rate, keeping 50% headroom so a loaded machine can still
// keep pace.
func (c *Calibrator) calibrate() (uint64, error) {
	bench := c.Bench
	if bench == nil {
		bench = DefaultBenchmark
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Budget)
	defer cancel()

	log := logrus.WithField("module", "poh")

	for attempt := 0; ; attempt++ {
		elapsed, spread, err := c.measure(ctx, bench, log)
		if err != nil {
			return 0, err
		}

		if spread <= c.MaxSpreadPercent {
			hashesPerTick := uint64(c.TargetTickDuration) * c.SampleSize / uint64(elapsed) / 2
			if hashesPerTick < 2 {
				hashesPerTick = 2
			}
			log.WithFields(logrus.Fields{
				"elapsed":       elapsed,
				"hashesPerTick": hashesPerTick,
			}).Info("tick rate calibrated")
			return hashesPerTick, nil
		}

		if attempt >= c.Retries {
			return 0, fmt.Errorf("%w: spread %d%% over %d attempts",
				ErrCalibrationUnstable, spread, attempt+1)
		}
		log.WithField("spreadPercent", spread).Warn("noisy calibration sample, retrying")
	}
}

// measure runs c.Samples benchmarks and returns the median duration plus
// the relative spread (percent of the minimum).
func (c *Calibrator) measure(ctx context.Context, bench BenchmarkFunc, log *logrus.Entry) (time.Duration, uint64, error) {
	var min, max, sum time.Duration

	for i := 0; i < c.Samples; i++ {
		if ctx.Err() != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrCalibrationTimeout, ctx.Err())
		}
		log.WithField("hashes", c.SampleSize).Debug("running benchmark sample")
		elapsed, err := bench(ctx, c.SampleSize)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
				return 0, 0, fmt.Errorf("%w: %v", ErrCalibrationTimeout, err)
			}
			return 0, 0, err
		}
		if elapsed <= 0 {
			elapsed = time.Nanosecond
		}

		if i == 0 || elapsed < min {
			min = elapsed
		}
		if elapsed > max {
			max = elapsed
		}
		sum += elapsed
	}

	spread := uint64((max - min) * 100 / min)
	return sum / time.Duration(c.Samples), spread, nil
}

// DefaultBenchmark rolls sampleSize chained hashes, split across the
// available cores to smooth scheduling noise. The parallelism only
// affects measurement stability; each worker rolls its own chain.
func DefaultBenchmark(ctx context.Context, sampleSize uint64) (time.Duration, error) {
	workers := uint64(runtime.NumCPU())
	if workers > sampleSize {
		workers = 1
	}
	per := sampleSize / workers

	start := time.Now()
	var wg sync.WaitGroup
	for w := uint64(0); w < workers; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			var v common.Hash
			v[0] = byte(seed)
			const chunk = 64 * 1024
			for done := uint64(0); done < per; {
				n := per - done
				if n > chunk {
					n = chunk
				}
				for i := uint64(0); i < n; i++ {
					v = sha256.Sum256(v[:])
				}
				done += n
				if ctx.Err() != nil {
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
