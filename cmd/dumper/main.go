// Command dumper attaches to a running Unreal Engine process, reads its
// reflection metadata, and writes a C++ SDK to disk. One compiled
// binary targets one game: the process name and the live name-pool /
// object-array locations are hardcoded below rather than taken as CLI
// input, the same way the original's Dumper::gameName and its
// Windows-specific GNames/GObjects pattern scan were fixed per build
// rather than configurable at the command line (original_source/Dumper/
// dumper.cpp, Dumper::Init).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/engine"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// targetProcessName is the comm name dumper looks for under /proc, the
// Linux replacement for the original's FindWindowA("UnrealWindow", ...)
// + GetWindowThreadProcessId lookup. Fill in per target.
const targetProcessName = "Game-Linux-Shipping"

// engineVersion selects the offsets.Config preset this build was
// compiled against, keyed by Config.EngineVersion (internal/offsets/
// presets.go). UnrealSDKDumper-4.25 ships against stock UE 4.25; swap
// to "UE4.25-obfuscated" for a build with shifted/obfuscated offsets.
const engineVersion = "UE4.25"

// nameBlockRVAs and objectChunkRVAs are the name pool's and object
// array's live chunk locations, expressed relative to the main
// module's load base. The original discovers these with a Windows
// pattern scan over the loaded image (memory.cpp, not retrieved in
// source form); here they stand in for that step exactly as
// dumper.cpp's own printed note says: "the content of GlobalOffset.h
// should be updated by yourself."
var (
	nameBlockRVAs   = []int64{}
	objectChunkRVAs = []int64{}
	numObjectsRVA   = int64(0) // read as a uint32 at base+numObjectsRVA
)

func main() {
	root := newRootCommand()
	err := root.Execute()
	if root.Flags().Changed("help") {
		os.Exit(engine.ExitHelp)
	}
	os.Exit(engine.ExitCode(err))
}

func newRootCommand() *cobra.Command {
	var opts engine.Options
	var full bool

	cmd := &cobra.Command{
		Use:           "dumper",
		Short:         "Dump an Unreal Engine process's reflection data into a C++ SDK",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Full = !full
			opts.Progress = os.Stderr
			return run(opts)
		},
	}

	cmd.Flags().BoolVarP(&full, "p", "p", false, "produce names and object dump only, skip SDK generation")
	cmd.Flags().BoolVarP(&opts.Wait, "w", "w", false, "pause at startup awaiting a keypress")
	cmd.Flags().StringVarP(&opts.PackageName, "f", "f", "", "enable the Pointer Probe starting from this package")
	cmd.Flags().BoolVar(&opts.Spacing, "spacing", false, "accepted for compatibility; emitted structs are written the same way with or without it")
	cmd.Flags().StringVarP(&opts.Directory, "dir", "o", "Games/"+targetProcessName, "output directory")

	return cmd
}

func run(opts engine.Options) error {
	if opts.Wait {
		if err := engine.AwaitStart("press enter to begin dumping> "); err != nil {
			return fmt.Errorf("await start: %w", engine.EnvironmentError)
		}
	}

	pid, err := remote.FindProcessByName(targetProcessName)
	if err != nil {
		return engine.ErrWindowNotFound
	}

	proc, err := remote.Attach(pid)
	if err != nil {
		return engine.ErrProcessNotFound
	}

	base, size, path, err := remote.MainModule(pid)
	if err != nil {
		return engine.ErrModuleNotFound
	}
	if path == "" {
		return engine.ErrCannotGetProcName
	}

	snapshot, ok := remote.NewSnapshot(proc, base, size)
	if !ok {
		return engine.ErrCannotReadImage
	}

	cfg, ok := offsets.Default.Lookup(engineVersion)
	if !ok {
		return fmt.Errorf("unsupported engine version %q: %w", engineVersion, engine.ConfigError)
	}

	globals := engine.Globals{
		NumObjects: int(remote.ReadUint32(proc, base.Add(numObjectsRVA))),
	}
	for _, rva := range nameBlockRVAs {
		globals.NameBlocks = append(globals.NameBlocks, base.Add(rva))
	}
	for _, rva := range objectChunkRVAs {
		globals.ObjectChunks = append(globals.ObjectChunks, base.Add(rva))
	}

	ctx := engine.New(proc, cfg, globals, nil, snapshot)

	res, err := engine.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "names: %d, objects: %d, packages: %d, fixed class sizes: %d\n",
		res.NameCount, res.ObjectCount, res.PackageCount, res.FixedClassCount)
	for _, a := range res.Anomalies {
		fmt.Fprintln(os.Stderr, a.String())
	}
	return nil
}
