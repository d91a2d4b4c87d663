package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel (0 = scene's samples per pixel)
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed; tile i draws from stream Seed+i
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, 9, 17, 25, 33, 41, 50
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               42,
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	tileRenderer  *TileRenderer
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer for a scene that
// has already been preprocessed
func NewProgressiveRaytracer(s *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if s == nil || s.Camera == nil || s.BVH == nil || s.LightList == nil {
		return nil, fmt.Errorf("scene has not been preprocessed: %w", core.ErrMalformedScene)
	}
	if logger == nil {
		logger = discardLogger{}
	}

	config = normalizeConfig(config, s.SamplingConfig)
	width, height := s.Camera.ImageSize()

	// Initialize shared pixel statistics array (global image coordinates)
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		scene:        s,
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize, config.Seed),
		pixelStats:   pixelStats,
		tileRenderer: NewTileRenderer(s, integrator.NewPathTracer(s.IntegratorConfig())),
		logger:       logger,
	}, nil
}

func normalizeConfig(config ProgressiveConfig, sampling scene.SamplingConfig) ProgressiveConfig {
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	if config.MaxSamplesPerPixel <= 0 {
		config.MaxSamplesPerPixel = sampling.SamplesPerPixel
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = 1
	}
	config.InitialSamples = max(1, min(config.InitialSamples, config.MaxSamplesPerPixel))
	return config
}

// Config returns the effective configuration after defaults were applied
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// Tiles returns the tile grid
func (pr *ProgressiveRaytracer) Tiles() []*Tile {
	return pr.tiles
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*Framebuffer, RenderStats, error) {
	pool := NewWorkerPool(pr.tileRenderer, len(pr.tiles), pr.config.NumWorkers)
	pool.Start(ctx)
	defer pool.Stop()

	return pr.renderPass(ctx, pool, passNumber, tileCallback)
}

func (pr *ProgressiveRaytracer) renderPass(ctx context.Context, pool *WorkerPool, passNumber int, tileCallback func(TileCompletionResult)) (*Framebuffer, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Drain every result so no worker is still writing when the image is assembled
	var firstErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, errors.New("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		// Callbacks are dispatched from this goroutine only
		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	fb, stats := pr.assembleCurrentImage(targetSamples)
	return fb, stats, firstErr
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, Vec3ToColor(stats.GetColor()))
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber  int
	Image       *image.RGBA
	Framebuffer *Framebuffer
	Stats       RenderStats
	IsLast      bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication.
// The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		var tileCallback func(TileCompletionResult)
		if options.TileUpdates {
			tileCallback = func(result TileCompletionResult) {
				select {
				case tileChan <- result:
				case <-ctx.Done():
				default:
					// Channel full, drop the update
				}
			}
		}

		err := pr.render(ctx, tileCallback, func(result PassResult) bool {
			select {
			case passChan <- result:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return passChan, tileChan, errChan
}

// Render runs every pass and returns the final framebuffer. If ctx is
// cancelled, the partially rendered buffer is returned along with ctx.Err().
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	var last PassResult
	err := pr.render(ctx, nil, func(result PassResult) bool {
		last = result
		return true
	})
	if err != nil {
		fb, stats := pr.assembleCurrentImage(pr.getSamplesForPass(max(1, pr.currentPass)))
		return fb, stats, err
	}
	return last.Framebuffer, last.Stats, nil
}

// render drives the passes and hands each completed pass to emit, which
// returns false to stop early
func (pr *ProgressiveRaytracer) render(ctx context.Context, tileCallback func(TileCompletionResult), emit func(PassResult) bool) error {
	pool := NewWorkerPool(pr.tileRenderer, len(pr.tiles), pr.config.NumWorkers)
	pool.Start(ctx)
	defer pool.Stop()

	pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
			return err
		}

		startTime := time.Now()
		fb, stats, err := pr.renderPass(ctx, pool, pass, tileCallback)
		if err != nil {
			pr.logger.Printf("Pass %d aborted: %v\n", pass, err)
			return err
		}

		pr.logger.Printf("Pass %d completed in %v (average: %.1f samples/pixel)\n",
			pass, time.Since(startTime), stats.AverageSamples)

		isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
		if !emit(PassResult{
			PassNumber:  pass,
			Image:       fb.ToImage(),
			Framebuffer: fb,
			Stats:       stats,
			IsLast:      isLast,
		}) {
			return ctx.Err()
		}

		if isLast {
			break
		}
	}
	return nil
}

// assembleCurrentImage copies the averaged pixel colors into a new framebuffer
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*Framebuffer, RenderStats) {
	fb := NewFramebuffer(pr.width, pr.height)
	stats := newRenderStats(pr.width*pr.height, targetSamples)

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			fb.Set(x, y, pixel.GetColor())
			stats.add(pixel.SampleCount)
		}
	}

	stats.finalize()
	return fb, stats
}
