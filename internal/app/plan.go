package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlinuxdude/hyprforge/internal/config"
	"github.com/mrlinuxdude/hyprforge/internal/distro"
	"github.com/mrlinuxdude/hyprforge/internal/output"
	"github.com/mrlinuxdude/hyprforge/internal/pkgset"
	"github.com/mrlinuxdude/hyprforge/internal/recipe"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what install would do without changing anything",
	Long: `Computes and prints the package set, the recipe actions, and the
configuration copy plan. Nothing is installed, copied, or enabled.

Recipe dependencies come from the cloned dotfiles repository. If the
repository has not been cloned yet (no prior install), the plan covers
the base package list only and says so.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	cfgPath, err := getConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	info, err := distro.Detect()
	if err != nil {
		return err
	}
	fmt.Printf("Distribution: %s (%s family)\n", info.PrettyName, info.Family)
	fmt.Printf("Repository:   %s\n", cfg.RepoURL)
	fmt.Println()

	// Recipes come from the last clone; plan never touches the network.
	var recipes []*recipe.Recipe
	rdir, err := repoDir()
	if err == nil {
		if _, statErr := os.Stat(rdir); statErr == nil {
			var warnings []recipe.ParseWarning
			recipes, warnings, err = recipe.Discover(filepath.Join(rdir, "packages"))
			if err != nil {
				return err
			}
			for _, w := range warnings {
				output.Warnf("recipe: %s", w)
			}
		} else {
			output.Warnf("dotfiles repository not cloned yet; plan covers the base package list only")
		}
	}

	listers := make([]pkgset.DependencyLister, len(recipes))
	for i, r := range recipes {
		listers[i] = r
	}
	base := append(pkgset.Base(info.Family), cfg.ExtraPackages...)
	set := pkgset.Aggregate(base, listers)

	fmt.Printf("Packages (%d):\n", set.Len())
	fmt.Print(output.RenderPackageColumns(set.Names()))
	fmt.Println()

	fmt.Printf("Recipes (%d):\n", len(recipes))
	if len(recipes) == 0 {
		fmt.Println("  (none)")
	}
	for _, r := range recipes {
		action := "build from source (makepkg)"
		if r.Artifact != "" {
			action = "install prebuilt " + filepath.Base(r.Artifact)
		}
		fmt.Printf("  %-24s %s\n", r.Name, action)
	}
	fmt.Println()

	plan := buildCopyPlan(rdir, home, cfg.TemplateHome)
	fmt.Printf("Configuration copy (%d trees):\n", len(plan.Entries))
	if len(plan.Entries) == 0 {
		fmt.Println("  (determined after clone)")
	}
	for _, e := range plan.Entries {
		fmt.Printf("  %s -> %s (backup first)\n", e.Source, e.Dest)
	}
	fmt.Println()

	fmt.Printf("Services to enable: %v (start now: %s)\n", cfg.Services, cfg.StartService)
	fmt.Println()
	fmt.Println("Run 'hyprforge install' to apply.")
	return nil
}
