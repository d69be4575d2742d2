// rfdctl 交互式地面站控制台：与 rfdstation 共用同一套链路工作协程，直接驱动本机串口。
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/taoyao-code/rfd-station/internal/app"
	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/logging"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/station"
	"github.com/taoyao-code/rfd-station/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	device := flag.String("device", "", "serial device, overrides serial.device")
	verbose := flag.Bool("v", false, "print raw bytes and chunk events")
	flag.Parse()

	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	// 控制台只输出警告以上的日志，详细日志仍写入滚动文件
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "console"
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, linkMetrics := app.NewMetrics()
	fan, _ := app.NewEventFanout(ctx, linkMetrics, nil, logger)
	fan.Add(rfd.ObserverFunc(printer(os.Stdout, *verbose)))

	worker, err := app.NewWorker(cfg, fan, linkMetrics, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	go worker.Run(ctx)

	console(ctx, worker, cfg.Serial.Device, logger)
	cancel()
	<-worker.Stopped()
}

func console(ctx context.Context, worker *station.Worker, device string, logger *zap.Logger) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	histPath := filepath.Join(os.TempDir(), ".rfdctl_history")
	if f, err := os.Open(histPath); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("rfdctl on %s, type help for commands\n", device)
	for {
		input, err := line.Prompt("rfd> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Warn("read console input failed", zap.Error(err))
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.Fields(input)[0] {
		case "quit", "exit":
			return
		case "help":
			fmt.Println(helpText)
			continue
		case "ports":
			ports, err := transport.ListPorts()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, p := range ports {
				fmt.Println(" ", p)
			}
			continue
		case "jobs":
			for _, j := range worker.List() {
				fmt.Printf("  %s  %-16s %-10s %s\n", j.ID, j.Request.Kind, j.State, j.Message)
			}
			continue
		}

		req, err := parseRequest(input)
		if err != nil {
			fmt.Println(err)
			continue
		}
		run(ctx, worker, req)
	}
}

// run 提交任务并等待结束；等待期间 Ctrl-C 取消当前任务
func run(ctx context.Context, worker *station.Worker, req station.Request) {
	info, err := worker.Submit(req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			_, _ = worker.Cancel(info.ID)
		case <-ctx.Done():
		}
	}()

	done, err := worker.Wait(ctx, info.ID)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("[%s] %s", done.State, done.Request.Kind)
	if done.Message != "" {
		fmt.Printf(": %s", done.Message)
	}
	fmt.Println()
	if done.Result != nil {
		if b, err := json.MarshalIndent(done.Result, "  ", "  "); err == nil {
			fmt.Println("  " + string(b))
		}
	}
}

// printer 将链路事件渲染为控制台输出
func printer(w io.Writer, verbose bool) func(ev rfd.Event) {
	return func(ev rfd.Event) {
		switch ev.Kind {
		case rfd.EventStatus:
			fmt.Fprintln(w, ev.Text)
		case rfd.EventProgress:
			if ev.Total > 0 {
				fmt.Fprintf(w, "\rprogress %d/%d (%.0f%%)", ev.Done, ev.Total, 100*float64(ev.Done)/float64(ev.Total))
				if ev.Done >= ev.Total {
					fmt.Fprintln(w)
				}
			}
		case rfd.EventLine:
			fmt.Fprintln(w, ev.Text)
		case rfd.EventGPS:
			if verbose {
				fmt.Fprintln(w, "gps fix:", ev.Text)
			}
		case rfd.EventPingSample:
			fmt.Fprintf(w, "ping %.3fs\n", ev.Seconds)
		case rfd.EventResync:
			fmt.Fprintln(w, "resync")
		case rfd.EventChunk:
			if verbose {
				fmt.Fprintf(w, "chunk %s word=%d\n", ev.Result, ev.WordLength)
			}
		case rfd.EventSent, rfd.EventReceived:
			if verbose && len(ev.Data) > 0 {
				fmt.Fprintf(w, "%s %q\n", ev.Kind, ev.Data)
			}
		}
	}
}
