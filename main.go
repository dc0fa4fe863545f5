package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"dibkit/bufop"
	"dibkit/parallel"
	"dibkit/pixbuf"
	"dibkit/transcode"
)

var cli struct {
	Workers       int    `help:"Files processed in parallel. Defaults to one per CPU." env:"DIBKIT_WORKERS" default:"0"`
	EngineWorkers int    `help:"Goroutines used inside a single buffer operation" default:"1"`
	MinChunk      int    `help:"Smallest buffer slice worth handing to an engine worker" default:"65536"`
	LogLevel      string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogJSON       bool   `help:"Log as JSON" default:"false"`

	Convert    transcode.ConvertCmd `cmd:"" help:"Convert pictures to buffer files"`
	Render     transcode.RenderCmd  `cmd:"" help:"Render buffer files as pictures"`
	Flip       bufop.FlipCmd        `cmd:"" help:"Rotate buffer files by 180 degrees"`
	Resize     bufop.ResizeCmd      `cmd:"" help:"Enlarge or shrink buffer files by an integer factor"`
	PixelArray bufop.PixelArrayCmd  `cmd:"" name:"pixelarray" help:"Write the padded pixel array of buffer files"`
}

func setupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cli.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("dibkit"),
		kong.Description("Transcode and resample packed DIB pixel buffers."),
		kong.UsageOnError(),
	)
	setupLogger()

	pool := parallel.Start(cli.Workers)
	engine := pixbuf.Engine{Workers: cli.EngineWorkers, MinChunk: cli.MinChunk}
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers, "engineWorkers", engine.Workers)

	err := kctx.Run(pool.Do, pool.Wait, engine)
	kctx.FatalIfErrorf(err)
}
