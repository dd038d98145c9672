package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbly/jvmprobe/pkg/probeclient"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Query or control a running probe's control plane",
}

var probeStatusCmd = &cobra.Command{
	Use:   "status <key>",
	Short: "Read a probe key's hit count and the runtime's current configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := probeclient.New(baseURL()).Status(args[0])
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var probeResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Zero a probe key's hit count and last-hit timestamp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := probeclient.New(baseURL()).Reset(args[0]); err != nil {
			return err
		}
		fmt.Println("reset", args[0])
		return nil
	},
}

var (
	actuateMode          string
	actuateActuatorID    string
	actuateTargetKey     string
	actuateReturnBoolean bool
	actuateReturnBoolSet bool
)

var probeActuateCmd = &cobra.Command{
	Use:   "actuate",
	Short: "Arm or disarm the control plane's actuation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := probeclient.ActuateRequest{Mode: actuateMode}
		if actuateActuatorID != "" {
			req.ActuatorID = &actuateActuatorID
		}
		if actuateTargetKey != "" {
			req.TargetKey = &actuateTargetKey
		}
		if actuateReturnBoolSet {
			req.ReturnBoolean = &actuateReturnBoolean
		}
		resp, err := probeclient.New(baseURL()).Actuate(req)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	probeActuateCmd.Flags().StringVar(&actuateMode, "mode", "", "observe or actuate")
	probeActuateCmd.Flags().StringVar(&actuateActuatorID, "actuator-id", "", "free-form actuator identifier")
	probeActuateCmd.Flags().StringVar(&actuateTargetKey, "target-key", "", "probe key to actuate")
	probeActuateCmd.Flags().BoolVar(&actuateReturnBoolean, "return-boolean", false, "forced boolean return value")
	probeActuateCmd.PreRun = func(cmd *cobra.Command, args []string) {
		actuateReturnBoolSet = cmd.Flags().Changed("return-boolean")
	}

	probeCmd.AddCommand(probeStatusCmd, probeResetCmd, probeActuateCmd)
	rootCmd.AddCommand(probeCmd)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
