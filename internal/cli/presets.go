package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sruja-ai/sruja-sub008/pkg/layout"
)

// presetsCommand lists the layout presets.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the layout presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, name := range layout.Presets() {
				opts, err := layout.Preset(name)
				if err != nil {
					return err
				}
				if i > 0 {
					printNewline()
				}
				title := name
				if name == layout.DefaultPreset {
					title += " (default)"
				}
				printTitle(title)
				printKeyValue("node spacing ", px(opts.NodeSpacing))
				printKeyValue("rank spacing ", px(opts.RankSpacing))
				printKeyValue("external gap ", px(opts.ExternalGap))
				printKeyValue("safety margin", px(opts.SafetyMargin))
				p := opts.LevelPadding
				printKeyValue("padding      ", fmt.Sprintf("L0 %g  L1 %g  L2 %g  L3 %g", p.L0, p.L1, p.L2, p.L3))
			}
			printNewline()
			printNextStep("Apply a preset", appName+" layout diagram.json --preset <name>")
			return nil
		},
	}
}

func px(v float64) string { return fmt.Sprintf("%gpx", v) }
