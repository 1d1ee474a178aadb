package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrinet/allocd/app"
	"github.com/agrinet/allocd/config"
	"github.com/agrinet/allocd/core/model"
)

var (
	negKind     string
	negQuantity float64
	negPrice    float64
	negAgent    string
)

var negotiateCmd = &cobra.Command{
	Use:   "negotiate",
	Short: "Open a negotiation session with a seed offer",
	RunE:  negotiate,
}

func init() {
	negotiateCmd.Flags().StringVar(&negKind, "kind", "water", "resource kind")
	negotiateCmd.Flags().Float64Var(&negQuantity, "quantity", 1000, "offered quantity")
	negotiateCmd.Flags().Float64Var(&negPrice, "price", 0, "seed offer price, 0 for the strategy opening")
	negotiateCmd.Flags().StringVar(&negAgent, "agent", "cli", "initiating agent id")
	rootCmd.AddCommand(negotiateCmd)
}

func negotiate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	outcome, err := svc.HandleNegotiation(model.NegotiationAction{
		Action:   "make_offer",
		AgentID:  negAgent,
		Price:    negPrice,
		Quantity: negQuantity,
		Payload:  map[string]string{"item_type": negKind},
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
