package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resilinet/bridgeopt/config"
	"github.com/resilinet/bridgeopt/core/model"
	"github.com/resilinet/bridgeopt/infra/input"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and scenario tables without optimizing",
	RunE:  validate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, sc := range cfg.Scenarios {
		nodes, err := input.LoadNodes(sc.NodesFile)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		links, err := input.LoadLinks(sc.LinksFile)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		bridges, err := input.LoadBridges(sc.BridgesFile)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		net, err := model.NewNetwork(nodes, links, bridges)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		fmt.Printf("%s: %d nodes, %d links, %d damaged bridges\n",
			sc.Name, len(net.Nodes()), len(net.Edges()), len(net.DamagedBridges()))
	}
	return nil
}
