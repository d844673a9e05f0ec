package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hlcli/internal/ipc"
	"hlcli/internal/paths"
)

func newServerCmd() *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Manage the hl-server daemon",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		RunE:  runServerStart,
	}
	startCmd.Flags().BoolP("daemonize", "d", true, "run in the background")

	serverCmd.AddCommand(startCmd)
	serverCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE:  runServerStop,
	})
	serverCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE:  runServerStatus,
	})
	return serverCmd
}

func runServerStart(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if client, err := ipc.TryConnect(); err == nil && client != nil {
		client.Close()
		fmt.Println("hl-server is already running")
		return nil
	}

	bin, err := serverBinary()
	if err != nil {
		return err
	}
	args := []string{}
	if cfg.Testnet {
		args = append(args, "--testnet")
	}
	daemonize, _ := cmd.Flags().GetBool("daemonize")
	if daemonize {
		args = append(args, "--daemonize")
	}

	launch := exec.Command(bin, args...)
	launch.Stdout = os.Stdout
	launch.Stderr = os.Stderr
	if err := launch.Run(); err != nil {
		return fmt.Errorf("start hl-server: %w", err)
	}
	return nil
}

// serverBinary finds hl-server next to the hl binary, falling back to PATH.
func serverBinary() (string, error) {
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "hl-server")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	bin, err := exec.LookPath("hl-server")
	if err != nil {
		return "", fmt.Errorf("hl-server binary not found: %w", err)
	}
	return bin, nil
}

func runServerStop(_ *cobra.Command, _ []string) error {
	client, err := ipc.TryConnect()
	if err != nil {
		return err
	}
	if client == nil {
		fmt.Println("hl-server is not running")
		return nil
	}
	defer client.Close()

	if err := client.Shutdown(); err != nil {
		return killByPid()
	}

	// Give the daemon a grace period to clean up, then force-terminate.
	sock, err := paths.ServerSocketPath()
	if err != nil {
		return err
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(sock); os.IsNotExist(err) {
			fmt.Println("hl-server stopped")
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return killByPid()
}

func killByPid() error {
	pidPath, err := paths.ServerPidPath()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("hl-server is not running")
			return nil
		}
		return err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("invalid pid file: %w", err)
	}

	if err := syscall.Kill(pid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	for _, fn := range []func() (string, error){paths.ServerSocketPath, paths.ServerPidPath, paths.ServerStatusPath} {
		if path, err := fn(); err == nil {
			os.Remove(path)
		}
	}
	fmt.Printf("hl-server force-terminated (pid %d)\n", pid)
	return nil
}

func runServerStatus(_ *cobra.Command, _ []string) error {
	client, err := ipc.TryConnect()
	if err != nil {
		return err
	}
	if client == nil {
		fmt.Println("hl-server is not running")
		return nil
	}
	defer client.Close()

	status, err := client.GetStatus()
	if err != nil {
		return err
	}

	network := "mainnet"
	if status.Testnet {
		network = "testnet"
	}
	fmt.Printf("hl-server is running (%s)\n", network)
	fmt.Printf("  connected: %v\n", status.Connected)
	fmt.Printf("  uptime:    %s\n", (time.Duration(status.Uptime) * time.Millisecond).Round(time.Second))
	fmt.Println("  cache:")
	printSlot("mids", status.Cache.HasMids, status.Cache.MidsAge)
	printSlot("assetCtxs", status.Cache.HasAssetCtxs, status.Cache.AssetCtxsAge)
	printSlot("perpMetas", status.Cache.HasPerpMetas, status.Cache.PerpMetasAge)
	printSlot("spotMeta", status.Cache.HasSpotMeta, status.Cache.SpotMetaAge)
	printSlot("spotAssetCtxs", status.Cache.HasSpotAssetCtxs, status.Cache.SpotAssetCtxsAge)
	return nil
}

func printSlot(name string, present bool, age *int64) {
	if !present || age == nil {
		fmt.Printf("    %-14s empty\n", name)
		return
	}
	fmt.Printf("    %-14s %dms old\n", name, *age)
}
