package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Inspect ingested hosts",
	RunE:  runHostsList,
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ingested hosts",
	RunE:  runHostsList,
}

var hostsShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show one host's record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHostsShow,
}

func init() {
	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsShowCmd)
	rootCmd.AddCommand(hostsCmd)
}

func runHostsList(cmd *cobra.Command, _ []string) error {
	if hostStore == nil {
		return errors.New("host store not configured")
	}

	hosts, err := hostStore.ListHosts(context.Background())
	if err != nil {
		return fmt.Errorf("listing hosts: %w", err)
	}

	if len(hosts) == 0 {
		cmd.Println("No hosts ingested yet.")
		return nil
	}

	cmd.Printf("%-36s  %-24s  %5s  %5s  %5s  %s\n",
		"ID", "NAME", "CREDS", "FILES", "SOFT", "INGESTED")
	for _, h := range hosts {
		cmd.Printf("%-36s  %-24s  %5d  %5d  %5d  %s\n",
			h.ID, h.Name, h.CredentialCount, h.FileCount, h.SoftwareCount,
			h.IngestedAt.Format("2006-01-02 15:04"))
	}
	cmd.Printf("\n%d host(s).\n", len(hosts))
	return nil
}

func runHostsShow(cmd *cobra.Command, args []string) error {
	if hostStore == nil {
		return errors.New("host store not configured")
	}

	host, err := hostStore.GetHost(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no host matches %q", args[0])
		}
		return fmt.Errorf("fetching host: %w", err)
	}

	cmd.Printf("Host %s\n", host.Name)
	cmd.Println("==========")
	cmd.Printf("  ID:        %s\n", host.ID)
	cmd.Printf("  Hash:      %s\n", host.Hash)
	cmd.Printf("  Ingested:  %s\n", host.IngestedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println("  [Fingerprint]")
	printField(cmd, "Computer", host.ComputerName)
	printField(cmd, "OS", host.OSName)
	printField(cmd, "User", host.UserName)
	printField(cmd, "IP", host.IPAddress)
	printField(cmd, "Country", host.Country)
	printField(cmd, "HWID", host.HWID)
	printField(cmd, "Log date", host.LogDate)
	cmd.Println()
	cmd.Println("  [Records]")
	cmd.Printf("  Credentials: %d\n", host.CredentialCount)
	cmd.Printf("  Files:       %d\n", host.FileCount)
	cmd.Printf("  Software:    %d\n", host.SoftwareCount)
	return nil
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		value = "(unknown)"
	}
	cmd.Printf("  %-9s %s\n", label+":", value)
}
