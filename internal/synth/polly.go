package synth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
)

const providerPolly = "polly"

// pollyAPI is the subset of the Polly client used here.
type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyOptions configures NewPollyClient.
type PollyOptions struct {
	// Region overrides the region from the default AWS chain.
	Region  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// PollyClient synthesizes speech with AWS Polly.
type PollyClient struct {
	api     pollyAPI
	timeout time.Duration
	logger  *slog.Logger
}

// NewPollyClient loads credentials and region from the default AWS chain.
// SDK retries are disabled so a failed call aborts the run.
func NewPollyClient(ctx context.Context, opts PollyOptions) (*PollyClient, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	api := polly.NewFromConfig(awsCfg, func(o *polly.Options) {
		o.Retryer = aws.NopRetryer{}
	})
	return newPollyClient(api, opts), nil
}

func newPollyClient(api pollyAPI, opts PollyOptions) *PollyClient {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PollyClient{
		api:     api,
		timeout: opts.Timeout,
		logger:  logging.NewComponentLogger(logger, "polly"),
	}
}

// Synthesize calls SynthesizeSpeech and reads the whole audio stream.
func (c *PollyClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(req.Text),
		VoiceId:      types.VoiceId(req.Voice),
		OutputFormat: types.OutputFormatMp3,
	}
	if req.Engine != "" {
		input.Engine = types.Engine(req.Engine)
	}
	if req.Codec == audio.CodecPCM {
		rate := req.SampleRate
		if rate <= 0 {
			rate = audio.DefaultPCMSampleRate
		}
		input.OutputFormat = types.OutputFormatPcm
		input.SampleRate = aws.String(strconv.Itoa(rate))
	}

	start := time.Now()
	out, err := c.api.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, synthesisError(providerPolly, req, err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, synthesisError(providerPolly, req, fmt.Errorf("read audio stream: %w", err))
	}
	if len(data) == 0 {
		return nil, emptyAudioError(providerPolly, req)
	}
	c.logger.Debug("polly synthesis complete",
		logging.Int("characters", int(out.RequestCharacters)),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}
