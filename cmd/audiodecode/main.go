package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/avelement/audio"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/codec/libav"
	"github.com/xaionaro-go/avelement/element/audiocodec"
	"github.com/xaionaro-go/avelement/element/nullsink"
	"github.com/xaionaro-go/avelement/element/packetsource"
	"github.com/xaionaro-go/avelement/indicator"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/pipeline"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/avelement/urltools"
	"github.com/xaionaro-go/observability"
)

type sinkStats struct {
	Buffers   atomic.Uint64
	Bytes     atomic.Uint64
	LastTSMul atomic.Int64

	peakLocker sync.Mutex
	peaks      []float64
}

func (s *sinkStats) observe(ctx context.Context, b buffer.Buffer) {
	s.Buffers.Add(1)
	s.Bytes.Add(uint64(b.Size()))
	s.LastTSMul.Store(int64(b.TimeStamp() * 1000))

	pcm, ok := b.(*buffer.PcmData)
	if !ok {
		return
	}
	s.peakLocker.Lock()
	defer s.peakLocker.Unlock()
	for ch := range pcm.Channels {
		samples, err := audio.ExtractSamples(pcm, ch)
		if err != nil {
			logger.Debugf(ctx, "unable to extract the samples of channel %d: %v", ch, err)
			return
		}
		if ch >= len(s.peaks) {
			s.peaks = append(s.peaks, 0)
		}
		s.peaks[ch] = max(s.peaks[ch], audio.Peak(samples))
	}
}

// takePeaks returns the per-channel peaks in dBFS since the previous call.
func (s *sinkStats) takePeaks() []string {
	s.peakLocker.Lock()
	defer s.peakLocker.Unlock()
	result := make([]string, len(s.peaks))
	for ch, peak := range s.peaks {
		result[ch] = fmt.Sprintf("%.1f", 20*math.Log10(peak))
		s.peaks[ch] = 0
	}
	return result
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options] <URL>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	poolSize := pflag.Uint("pool-size", 8, "the maximal amount of encoded packets in flight")
	pollInterval := pflag.Duration("poll-interval", 10*time.Millisecond, "how often idle elements are polled")
	sampleFormat := pflag.String("sample-format", "", "the preferred decoded sample format (s16p, fltp)")
	reuseOutputBuffers := pflag.Bool("reuse-output-buffers", false, "refill the decoded buffers returned by the sink instead of allocating new ones")
	forceStreamType := pflag.String("force-stream-type", "", "override the detected stream type (aac, ac3, eac3, dts, mp3, flac, opus, vorbis, ...)")
	var timeBase types.Rational
	pflag.Var(&timeBase, "time-base", "override the time base of the input timestamps (e.g. 1/90000)")
	statsInterval := pflag.Duration("stats-interval", time.Second, "how often to print the statistics")
	pflag.Parse()
	if len(pflag.Args()) != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { logger.Error(ctx, http.ListenAndServe(*netPprofAddr, nil)) })
	}

	libav.SetupLogging(ctx)

	inputURL := pflag.Arg(0)
	if path, ok := urltools.LocalPath(inputURL); ok {
		if _, err := os.Stat(path); err != nil {
			l.Fatal(err)
		}
	}
	logger.Debugf(ctx, "opening '%s' as the input...", inputURL)
	demuxer, err := libav.OpenDemuxer(ctx, inputURL)
	if err != nil {
		l.Fatal(err)
	}

	sourceOpts := packetsource.Options{packetsource.OptionPoolSize(*poolSize)}
	if !timeBase.IsZero() {
		sourceOpts = append(sourceOpts, packetsource.OptionTimeBase(timeBase))
	}
	params := demuxer.AudioParams()
	if *forceStreamType != "" {
		params.StreamType, err = types.AudioStreamTypeFromString(*forceStreamType)
		if err != nil {
			l.Fatal(err)
		}
	}
	source := packetsource.New(demuxer, pin.NewAudioInfo(params), sourceOpts...)

	decoderFactory := libav.NewDecoderFactory()
	decoderFactory.SampleFormat = *sampleFormat
	decoderFactory.ExtraData = demuxer.ExtraData()
	decoder := audiocodec.New(decoderFactory, audiocodec.OptionReuseOutputBuffers(*reuseOutputBuffers))

	var stats sinkStats
	sink := nullsink.New(stats.observe)

	p := pipeline.New(pipeline.OptionPollInterval(*pollInterval))
	defer func() {
		if err := p.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the pipeline: %v", err)
		}
	}()
	if err := p.Add(ctx, source, decoder, sink); err != nil {
		l.Fatal(err)
	}
	if err := p.ConnectElements(ctx, source, decoder); err != nil {
		l.Fatal(err)
	}
	if err := p.ConnectElements(ctx, decoder, sink); err != nil {
		l.Fatal(err)
	}
	logger.Debugf(ctx, "pipeline: %s", p)
	if err := p.SetState(ctx, types.MediaStateRunning); err != nil {
		l.Fatal(err)
	}

	errCh := make(chan error, 1)
	observability.Go(ctx, func(ctx context.Context) {
		errCh <- p.Serve(ctx)
	})

	throughput := indicator.NewThroughput(5)
	printStats := func() {
		statsJSON, err := json.Marshal(p.GetStatistics())
		if err != nil {
			l.Fatal(err)
		}
		decoderJSON, err := json.Marshal(decoder.GetStatistics())
		if err != nil {
			l.Fatal(err)
		}
		fmt.Printf(
			"decoded:%s (%s/s, %d buffers) up to %s; peaks:%s dBFS; decoder:%s; links:%s\n",
			humanize.Bytes(stats.Bytes.Load()),
			humanize.Bytes(uint64(throughput.Update(stats.Bytes.Load(), time.Now()))),
			stats.Buffers.Load(),
			time.Duration(stats.LastTSMul.Load())*time.Millisecond,
			strings.Join(stats.takePeaks(), "/"),
			decoderJSON, statsJSON,
		)
	}

	infoDumped := false
	t := time.NewTicker(*statsInterval)
	defer t.Stop()
	for {
		select {
		case err := <-errCh:
			printStats()
			if err != nil {
				l.Fatal(err)
			}
			return
		case <-t.C:
			if !infoDumped && loggerLevel >= logger.LevelDebug {
				if outInfo, ok := decoder.OutputPins()[0].Info().(*pin.AudioInfo); ok && outInfo.IsNegotiated(ctx) {
					logger.Debugf(ctx, "negotiated output: %s", spew.Sdump(outInfo.GetAudioParams(ctx)))
					infoDumped = true
				}
			}
			printStats()
			if source.IsEOF(ctx) && source.InFlight(ctx) == 0 {
				logger.Debugf(ctx, "the input is fully decoded")
				cancelFn()
			}
		}
	}
}
