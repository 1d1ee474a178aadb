package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrinet/allocd/app"
	"github.com/agrinet/allocd/config"
	"github.com/agrinet/allocd/core/model"
)

var (
	allocKind     string
	allocQuantity float64
	allocHours    float64
	allocPriority string
	allocBudget   float64
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Inject a test allocation request",
	RunE:  allocate,
}

func init() {
	allocateCmd.Flags().StringVar(&allocKind, "kind", "water", "resource kind")
	allocateCmd.Flags().Float64Var(&allocQuantity, "quantity", 1000, "requested quantity")
	allocateCmd.Flags().Float64Var(&allocHours, "hours", 2, "duration in hours")
	allocateCmd.Flags().StringVar(&allocPriority, "priority", "normal", "request priority")
	allocateCmd.Flags().Float64Var(&allocBudget, "budget", 0, "max price, 0 for unlimited")
	rootCmd.AddCommand(allocateCmd)
}

func allocate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	kind, err := model.ParseResourceKind(allocKind)
	if err != nil {
		return err
	}
	priority, err := model.ParsePriority(allocPriority)
	if err != nil {
		return err
	}
	req := model.AllocationRequest{
		RequestID:     fmt.Sprintf("cli_%d", time.Now().Unix()),
		RequesterID:   "cli",
		Kind:          kind,
		Quantity:      allocQuantity,
		StartTime:     time.Now().Truncate(time.Hour).Add(time.Hour),
		DurationHours: allocHours,
		Priority:      priority,
		MaxPrice:      allocBudget,
	}
	result := svc.HandleAllocation(req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
