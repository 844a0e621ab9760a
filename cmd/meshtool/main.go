// meshtool is a CLI utility for inspecting and editing meshes stored as YAML.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/internal/config"
	"github.com/Faultbox/meshtopo/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	t := &tool{cfg: cfg, log: logger.Named("meshtool")}
	logger.Sugar.Debugf("Config: %+v", cfg)

	switch command {
	case "info":
		err = t.cmdInfo(args[1:])
	case "groups":
		err = t.cmdGroups(args[1:])
	case "compile":
		err = t.cmdCompile(args[1:])
	case "wings":
		err = t.cmdWings(args[1:])
	case "unwrap":
		err = t.cmdUnwrap(args[1:])
	case "weld":
		err = t.cmdWeld(args[1:])
	case "merge":
		err = t.cmdMerge(args[1:])
	case "delete":
		err = t.cmdDelete(args[1:])
	case "sanitize":
		err = t.cmdSanitize(args[1:])
	case "cube":
		err = t.cmdCube(args[1:])
	case "plane":
		err = t.cmdPlane(args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`meshtool - polygon mesh topology utility

Usage:
  meshtool [global flags] <command> [options]

Global flags:
  -config <file>      Config file (default $MESHTOPO_CONFIG, then ./meshtopo.yaml,
                      ./config.yaml or the user config dir)
  -debug              Debug logging
  -resolution <n>     Coincident vertex quantization steps per unit
  -topology <name>    Compiled topology: triangles or quads
  -log-file <file>    Also log to a rotated file
  -no-uv              Do not regenerate UVs on rebuild

Commands:
  info <mesh.yaml>                        Show counts, groups and open edges
  groups <mesh.yaml> [-all]               List coincident vertex groups
  compile <mesh.yaml>                     Print compiled index buffers per submesh
  wings <mesh.yaml> [-face N]             Print winged edges of a face
  unwrap <mesh.yaml> [-o out]             Regenerate UVs and normals
  weld <mesh.yaml> -v 1,2,3 [-o out]      Weld vertices into one position
  merge <mesh.yaml> [-o out]              Join adjacent triangles into quads
  delete <mesh.yaml> -f 0,2 [-o out]      Delete faces and unused vertices
  sanitize <mesh.yaml> [-o out]           Replace NaN/Inf attribute values
  cube [-size x,y,z] [-o out]             Generate a cube
  plane [-size w,d] [-cols N] [-rows N] [-o out]
                                          Generate a grid in the XZ plane

Without -o the result is written to stdout.

Examples:
  meshtool cube -size 2,1,1 -o box.yaml
  meshtool -topology quads compile box.yaml
  meshtool weld box.yaml -v 0,5 -o welded.yaml`)
}
