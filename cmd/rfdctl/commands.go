package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
	"github.com/taoyao-code/rfd-station/internal/station"
)

var errUsage = errors.New("usage")

// commandNames 控制台命令（用于补全）
var commandNames = []string{
	"latest", "list", "get", "settings", "set", "flip", "timesync",
	"ping", "runtime", "cmd", "listen", "ports", "jobs", "help", "quit",
}

const helpText = `commands:
  latest [save-name]          request the most recent image
  list                        list images stored on the payload
  get <name> [confirm]        request an image by name; high-res needs confirm
  settings                    read camera settings
  set <w> <h> <sharpness> <brightness> <contrast> <saturation> <iso>
  flip h|v                    toggle horizontal or vertical camera flip
  timesync                    synchronize the payload clock
  ping [samples]              measure round-trip time
  runtime                     fetch payload runtime data
  cmd <identifier> <command>  send a raw command
  listen                      print telemetry lines until Ctrl-C
  ports                       list serial ports
  jobs                        show recent jobs
  quit`

// parseRequest 将一行控制台输入转换为工作队列请求
func parseRequest(line string) (station.Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return station.Request{}, errUsage
	}
	args := fields[1:]
	switch fields[0] {
	case "latest":
		req := station.Request{Kind: station.KindLatestImage}
		if len(args) > 0 {
			req.Name = args[0]
		}
		return req, nil
	case "list":
		return station.Request{Kind: station.KindListImages}, nil
	case "get":
		if len(args) == 0 || len(args) > 2 {
			return station.Request{}, fmt.Errorf("%w: get <name> [confirm]", errUsage)
		}
		return station.Request{
			Kind:    station.KindImageByName,
			Name:    args[0],
			Confirm: len(args) == 2 && args[1] == "confirm",
		}, nil
	case "settings":
		return station.Request{Kind: station.KindGetSettings}, nil
	case "set":
		if len(args) != 7 {
			return station.Request{}, fmt.Errorf("%w: set needs 7 values", errUsage)
		}
		vals := make([]int, len(args))
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return station.Request{}, fmt.Errorf("%w: %q is not an integer", errUsage, a)
			}
			vals[i] = v
		}
		s := rfd.CameraSettings{
			Width: vals[0], Height: vals[1], Sharpness: vals[2], Brightness: vals[3],
			Contrast: vals[4], Saturation: vals[5], ISO: vals[6],
		}
		return station.Request{Kind: station.KindSetSettings, Settings: &s}, nil
	case "flip":
		if len(args) != 1 {
			return station.Request{}, fmt.Errorf("%w: flip h|v", errUsage)
		}
		switch args[0] {
		case "h", "horizontal":
			return station.Request{Kind: station.KindFlipHorizontal}, nil
		case "v", "vertical":
			return station.Request{Kind: station.KindFlipVertical}, nil
		}
		return station.Request{}, fmt.Errorf("%w: flip h|v", errUsage)
	case "timesync":
		return station.Request{Kind: station.KindTimeSync}, nil
	case "ping":
		req := station.Request{Kind: station.KindPing}
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return station.Request{}, fmt.Errorf("%w: ping [samples]", errUsage)
			}
			req.Samples = n
		}
		return req, nil
	case "runtime":
		return station.Request{Kind: station.KindRuntimeData}, nil
	case "cmd":
		if len(args) < 2 {
			return station.Request{}, fmt.Errorf("%w: cmd <identifier> <command>", errUsage)
		}
		return station.Request{
			Kind:       station.KindCommand,
			Identifier: args[0],
			Command:    strings.Join(args[1:], " "),
		}, nil
	case "listen":
		return station.Request{Kind: station.KindListen}, nil
	}
	return station.Request{}, fmt.Errorf("%w: unknown command %q", errUsage, fields[0])
}

// completeCommand 命令前缀补全
func completeCommand(line string) []string {
	var out []string
	for _, c := range commandNames {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}
