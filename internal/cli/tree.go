package cli

import (
	"context"
	"fmt"

	"pfwidgets/internal/di"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/widget"

	"github.com/spf13/cobra"
)

var (
	treeFlagID       string
	treeFlagNodeID   string
	treeFlagImages   bool
	treeFlagCollapse bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Read and drive a bootstrap tree view",
	Long: `Read and drive a patternfly-bootstrap-treeview.

Path steps are matched against node texts from the root down:
  text          exact text
  re:expr       regular expression
  text:text     exact text that contains | or starts with re:
  image|text    text that must also carry image

Examples:
  pfwidgets --file page.html tree read --tree-id tree --images
  pfwidgets --file page.html tree click-path --tree-id tree Datastores 're:^ds\d+$'
  pfwidgets --file page.html tree check --tree-id tree Datastores NFS`,
}

var treeReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the tree, expanding every branch",
	Args:  cobra.NoArgs,
	RunE: withPage(func(ctx context.Context, c *di.Container, _ []string) error {
		tree, err := widget.NewBootstrapTreeview(c.Page, widget.TreeOptions{TreeID: treeFlagID})
		if err != nil {
			return err
		}
		content, err := tree.ReadContents(ctx, widget.ReadOptions{
			NodeID:            treeFlagNodeID,
			IncludeImages:     treeFlagImages,
			CollapseAfterRead: treeFlagCollapse,
		})
		if err != nil {
			return err
		}
		return c.Reporter.ShowTree(ctx, content)
	}),
}

var treeHasPathCmd = &cobra.Command{
	Use:   "has-path STEP...",
	Short: "Check whether a path exists",
	Args:  cobra.MinimumNArgs(1),
	RunE: withPage(func(ctx context.Context, c *di.Container, args []string) error {
		steps, err := entity.ParsePath(args)
		if err != nil {
			return err
		}
		tree, err := widget.NewBootstrapTreeview(c.Page, widget.TreeOptions{TreeID: treeFlagID})
		if err != nil {
			return err
		}
		ok, err := tree.HasPath(ctx, steps...)
		if err != nil {
			return err
		}
		c.Reporter.ShowPath(ctx, entity.PrettyPath(steps), ok)
		return nil
	}),
}

var treeClickPathCmd = &cobra.Command{
	Use:   "click-path STEP...",
	Short: "Expand a path and click its last node",
	Args:  cobra.MinimumNArgs(1),
	RunE: withPage(func(ctx context.Context, c *di.Container, args []string) error {
		steps, err := entity.ParsePath(args)
		if err != nil {
			return err
		}
		tree, err := widget.NewBootstrapTreeview(c.Page, widget.TreeOptions{TreeID: treeFlagID})
		if err != nil {
			return err
		}
		if _, err := tree.ClickPath(ctx, steps...); err != nil {
			return err
		}
		c.Reporter.ShowPath(ctx, entity.PrettyPath(steps), true)
		return nil
	}),
}

// checkableCommand builds the check, uncheck and checked commands, which
// differ only in the tree operation and the label of the result.
func checkableCommand(use, short, label string, op func(*widget.CheckableBootstrapTreeview, context.Context, ...entity.Step) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " STEP...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: withPage(func(ctx context.Context, c *di.Container, args []string) error {
			steps, err := entity.ParsePath(args)
			if err != nil {
				return err
			}
			tree, err := widget.NewCheckableBootstrapTreeview(c.Page, widget.TreeOptions{TreeID: treeFlagID})
			if err != nil {
				return err
			}
			result, err := op(tree, ctx, steps...)
			if err != nil {
				return fmt.Errorf("%s %s: %w", use, entity.PrettyPath(steps), err)
			}
			return c.Reporter.ShowValue(ctx, label, result)
		}),
	}
}

func init() {
	flags := treeCmd.PersistentFlags()
	flags.StringVar(&treeFlagID, "tree-id", "", "id of the tree element")
	_ = treeCmd.MarkPersistentFlagRequired("tree-id")

	treeReadCmd.Flags().StringVar(&treeFlagNodeID, "node-id", "", "data-nodeid to start reading from")
	treeReadCmd.Flags().BoolVar(&treeFlagImages, "images", false, "include node icons")
	treeReadCmd.Flags().BoolVar(&treeFlagCollapse, "collapse", false, "collapse the branches expanded while reading")

	treeCmd.AddCommand(treeReadCmd)
	treeCmd.AddCommand(treeHasPathCmd)
	treeCmd.AddCommand(treeClickPathCmd)
	treeCmd.AddCommand(checkableCommand("check", "Check the node at a path", "changed", (*widget.CheckableBootstrapTreeview).CheckNode))
	treeCmd.AddCommand(checkableCommand("uncheck", "Uncheck the node at a path", "changed", (*widget.CheckableBootstrapTreeview).UncheckNode))
	treeCmd.AddCommand(checkableCommand("checked", "Report whether the node at a path is checked", "checked", (*widget.CheckableBootstrapTreeview).NodeChecked))
}
