/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package executor

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/named-data/ccnfwd/core"
	"github.com/spf13/cobra"
)

const banner = `
                  __              _
  ___ ___ _ __   / _|_      ____| |
 / __/ __| '_ \ | |_\ \ /\ / / _' |
| (_| (__| | | ||  _|\ V  V / (_| |
 \___\___|_| |_||_|   \_/\_/ \__,_|

CCNx Forwarding Daemon
`

var flags struct {
	cpuProfile   string
	memProfile   string
	blockProfile string
}

// CmdCCNFwd is the root command of the daemon.
var CmdCCNFwd = &cobra.Command{
	Use:     "ccnfwd",
	Short:   "CCNx Forwarding Daemon",
	Long:    banner[1:],
	Version: core.Version,
}

var cmdRun = &cobra.Command{
	Use:   "run CONFIG-FILE",
	Short: "Start the forwarding daemon",
	Long: `Start the forwarding daemon with the given configuration file.

Files ending in .yml or .yaml are read as YAML, everything else as TOML.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "ccnfwd: CCNx Forwarding Daemon")
		fmt.Fprintln(out, "Version: ", core.Version)
		fmt.Fprintln(out, "Released under the terms of the MIT License")
	},
}

func init() {
	cobra.EnableCommandSorting = false
	CmdCCNFwd.CompletionOptions.HiddenDefaultCmd = true

	cmdRun.Flags().StringVar(&flags.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	cmdRun.Flags().StringVar(&flags.memProfile, "mem-profile", "", "Write memory profile to file")
	cmdRun.Flags().StringVar(&flags.blockProfile, "block-profile", "", "Write block profile to file")

	CmdCCNFwd.AddCommand(cmdRun)
	CmdCCNFwd.AddCommand(cmdVersion)
}

func run(cmd *cobra.Command, args []string) error {
	config, err := core.LoadConfig(args[0])
	if err != nil {
		return err
	}
	config.Core.CpuProfile = flags.cpuProfile
	config.Core.MemProfile = flags.memProfile
	config.Core.BlockProfile = flags.blockProfile
	cmd.SilenceUsage = true

	fwd := NewCCNFwd(config)
	if err = core.InitializeLogger(); err != nil {
		return err
	}
	defer core.ShutdownLogger()

	if err = fwd.Start(); err != nil {
		return err
	}

	// set up signal handler channel and wait for interrupt
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.LogInfo("Main", "Received signal ", receivedSig, " - exiting")

	fwd.Stop()
	return nil
}
