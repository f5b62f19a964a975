package app

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlinuxdude/hyprforge/internal/artifacts"
	"github.com/mrlinuxdude/hyprforge/internal/backup"
	"github.com/mrlinuxdude/hyprforge/internal/cleanup"
	"github.com/mrlinuxdude/hyprforge/internal/config"
	"github.com/mrlinuxdude/hyprforge/internal/distro"
	"github.com/mrlinuxdude/hyprforge/internal/dotfiles"
	"github.com/mrlinuxdude/hyprforge/internal/output"
	"github.com/mrlinuxdude/hyprforge/internal/pkgmgr"
	"github.com/mrlinuxdude/hyprforge/internal/pkgset"
	"github.com/mrlinuxdude/hyprforge/internal/preflight"
	"github.com/mrlinuxdude/hyprforge/internal/recipe"
	"github.com/mrlinuxdude/hyprforge/internal/services"
	"github.com/mrlinuxdude/hyprforge/internal/store"
)

// installBatchSize is how many packages go into one package-manager
// invocation. Smaller batches keep one broken package from failing the
// whole set.
const installBatchSize = 25

var (
	installForce    bool
	installNoBackup bool
	installYes      bool

	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Provision the Hyprland/Quickshell desktop",
		Long: `Runs the full provisioning flow:

  1. Detect the distribution family (Arch or Fedora)
  2. Check preconditions (network, git, 2 GiB free disk)
  3. Back up ~/.config
  4. Clone the dotfiles repository
  5. Aggregate the package set (base list + recipe dependencies)
  6. Bootstrap the secondary package source and install everything
  7. Build and install local package recipes
  8. Force-copy the configuration over ~/.config
  9. Enable system services
 10. Write the session files (env, GTK themes, scripts)

Precondition, clone, and bootstrap failures abort the run. Individual
package, recipe, and service failures are reported as warnings and the
run continues.`,
		Example: `  # Provision the desktop
  hyprforge install

  # Reinstall everything: full system upgrade first, overwrite
  # conflicting files
  hyprforge install --force

  # Non-interactive
  hyprforge install --yes`,
		Args: cobra.NoArgs,
		RunE: runInstall,
	}
)

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "force reinstall: full system upgrade, overwrite conflicting files")
	installCmd.Flags().BoolVar(&installNoBackup, "no-backup", false, "skip the pre-install backup of ~/.config")
	installCmd.Flags().BoolVar(&installYes, "yes", false, "skip the confirmation prompt")

	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
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

	// Detection and preconditions run before anything mutates.
	info, err := distro.Detect()
	if err != nil {
		return err
	}
	output.Successf("Detected %s (%s family)", info.PrettyName, info.Family)

	checks, err := preflight.New().Run(home)
	for _, c := range checks {
		if c.OK {
			output.Successf("%s: %s", c.Name, c.Detail)
		} else {
			output.Failf("%s: %s", c.Name, c.Detail)
		}
	}
	if err != nil {
		return err
	}

	if !installYes && !confirm("This will install several hundred packages and overwrite ~/.config. Continue?") {
		return fmt.Errorf("installation cancelled")
	}

	resolvedDBPath, err := getDBPath()
	if err != nil {
		return err
	}
	st, err := store.New(resolvedDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()
	if err := st.CreateSchema(); err != nil {
		return err
	}

	mode := "install"
	if installForce {
		mode = "install --force"
	}
	runID, err := st.CreateRun(mode)
	if err != nil {
		return err
	}

	set, err := provision(st, runID, cfg, info, home)
	if err != nil {
		st.FinishRun(runID, store.RunStatusFailed, 0)
		return err
	}
	if err := st.FinishRun(runID, store.RunStatusCompleted, set.Len()); err != nil {
		return err
	}

	fmt.Println()
	output.Successf("Provisioning complete: %d packages in the install set", set.Len())
	fmt.Println("  Log out and choose the Hyprland session at the login screen.")
	fmt.Println("  Run 'hyprforge status' for the step-by-step record.")
	return nil
}

// provision executes the mutating steps in order, recording each outcome in
// the store. It returns the aggregated package set for the run summary.
func provision(st *store.Store, runID int64, cfg *config.Config, info *distro.Info, home string) (*pkgset.Set, error) {
	record := func(step, status, detail string) {
		if err := st.RecordStep(runID, step, status, detail); err != nil {
			output.Warnf("failed to record step %s: %v", step, err)
		}
	}

	// Step: backup. Fatal on failure unless explicitly skipped — this
	// backup is what 'hyprforge undo' restores.
	configDir := filepath.Join(home, ".config")
	if _, err := os.Stat(configDir); err == nil {
		if installNoBackup {
			output.Warnf("skipping ~/.config backup (--no-backup); 'hyprforge undo' will have nothing to restore")
			record("backup", store.StepStatusSkipped, "declined with --no-backup")
		} else {
			b, err := backup.New(st).Create(configDir, "pre-install")
			if err != nil {
				record("backup", store.StepStatusFailed, err.Error())
				return nil, fmt.Errorf("config backup failed (use --no-backup to proceed without one): %w", err)
			}
			output.Successf("Backed up ~/.config to %s (%d files)", b.Path, b.FileCount)
			record("backup", store.StepStatusOK, b.Path)
		}
	} else {
		record("backup", store.StepStatusSkipped, "no existing ~/.config")
	}

	// Step: clone. Fatal: nothing downstream works without the repository.
	rdir, err := repoDir()
	if err != nil {
		return nil, err
	}
	os.RemoveAll(rdir)
	spinner := output.NewSpinner("Cloning " + cfg.RepoURL + "...")
	if err := dotfiles.NewRepo(cfg.RepoURL, cfg.Branch).Clone(rdir); err != nil {
		spinner.StopWithMessage("")
		record("clone", store.StepStatusFailed, err.Error())
		return nil, err
	}
	spinner.StopWithMessage("Cloned " + cfg.RepoURL)
	record("clone", store.StepStatusOK, rdir)

	// Step: aggregate. Recipes with malformed declarations only warn.
	recipes, parseWarnings, err := recipe.Discover(filepath.Join(rdir, "packages"))
	if err != nil {
		record("aggregate", store.StepStatusFailed, err.Error())
		return nil, err
	}
	for _, w := range parseWarnings {
		output.Warnf("recipe: %s", w)
	}
	listers := make([]pkgset.DependencyLister, len(recipes))
	for i, r := range recipes {
		listers[i] = r
	}
	base := append(pkgset.Base(info.Family), cfg.ExtraPackages...)
	set := pkgset.Aggregate(base, listers)
	output.Successf("Aggregated %d packages (%d recipes)", set.Len(), len(recipes))
	record("aggregate", store.StepStatusOK, fmt.Sprintf("%d packages, %d recipes", set.Len(), len(recipes)))

	// Step: packages.
	mgr := pkgmgr.New(info.Family, installForce)
	if err := installPackageSet(mgr, set, record); err != nil {
		return nil, err
	}

	// Step: recipes. Per-recipe failures are warnings.
	buildRecipes(mgr, recipes, record)

	// Step: copy. Fatal on copy failure; per-entry backup failures warn.
	plan := buildCopyPlan(rdir, home, cfg.TemplateHome)
	copyWarnings, err := plan.Apply()
	for _, w := range copyWarnings {
		output.Warnf("%s", w)
	}
	if err != nil {
		record("copy", store.StepStatusFailed, err.Error())
		return nil, err
	}
	output.Successf("Applied %d configuration trees to %s", len(plan.Entries), home)
	record("copy", store.StepStatusOK, fmt.Sprintf("%d trees", len(plan.Entries)))

	// Step: services. Never fatal; one aggregated warning.
	results := services.New().EnableAll(cfg.Services, cfg.StartService)
	for _, r := range results {
		if err := st.RecordServiceResult(runID, r.Service, r.Outcome, r.Detail); err != nil {
			output.Warnf("failed to record service result: %v", err)
		}
	}
	if failures := services.FailureCount(results); failures > 0 {
		output.Warnf("%d of %d services failed to enable; run 'hyprforge status' for details", failures, len(results))
		record("services", store.StepStatusWarning, fmt.Sprintf("%d failures", failures))
	} else {
		output.Successf("Enabled %d services", len(results))
		record("services", store.StepStatusOK, fmt.Sprintf("%d services", len(results)))
	}

	// Step: artifacts.
	written, err := artifacts.WriteAll(home)
	if err != nil {
		record("artifacts", store.StepStatusFailed, err.Error())
		return nil, err
	}
	output.Successf("Wrote %d session files", len(written))
	record("artifacts", store.StepStatusOK, fmt.Sprintf("%d files", len(written)))

	return set, nil
}

// installPackageSet bootstraps the secondary source, partitions the set,
// and installs both halves. Bootstrap failure is fatal; batch failures
// warn.
func installPackageSet(mgr *pkgmgr.Manager, set *pkgset.Set, record func(step, status, detail string)) error {
	if installForce {
		spinner := output.NewSpinner("Running full system upgrade (--force)...")
		err := mgr.Upgrade()
		spinner.StopWithMessage("")
		if err != nil {
			output.Warnf("system upgrade failed: %v", err)
		} else {
			output.Successf("System upgraded")
		}
	}

	if !mgr.SecondaryReady() {
		tmp, err := os.MkdirTemp("", "hyprforge-bootstrap-")
		if err != nil {
			return fmt.Errorf("failed to create bootstrap directory: %w", err)
		}
		cleanup.Register(tmp)
		spinner := output.NewSpinner("Bootstrapping secondary package source...")
		err = mgr.BootstrapSecondary(filepath.Join(tmp, "helper"))
		spinner.StopWithMessage("")
		if err != nil {
			record("packages", store.StepStatusFailed, err.Error())
			return fmt.Errorf("secondary package source bootstrap failed: %w", err)
		}
		output.Successf("Secondary package source ready")
	}

	spinner := output.NewSpinner("Resolving package availability...")
	primary, secondary := mgr.Partition(set.Names())
	spinner.StopWithMessage(fmt.Sprintf("Resolved: %d primary, %d secondary", len(primary), len(secondary)))

	warnings := 0
	warnings += installBatches(primary, "packages", mgr.Install)
	warnings += installBatches(secondary, "community packages", mgr.InstallSecondary)

	if warnings > 0 {
		output.Warnf("%d package batches reported failures; the run continues", warnings)
		record("packages", store.StepStatusWarning, fmt.Sprintf("%d batch failures", warnings))
	} else {
		record("packages", store.StepStatusOK, fmt.Sprintf("%d installed", set.Len()))
	}
	return nil
}

// installBatches installs names in fixed-size batches with a progress bar,
// returning the number of failed batches.
func installBatches(names []string, what string, install func([]string) error) int {
	if len(names) == 0 {
		return 0
	}
	batches := (len(names) + installBatchSize - 1) / installBatchSize
	bar := output.NewProgress(batches, "Installing "+what)
	failures := 0
	for start := 0; start < len(names); start += installBatchSize {
		end := start + installBatchSize
		if end > len(names) {
			end = len(names)
		}
		if err := install(names[start:end]); err != nil {
			output.Warnf("batch failed: %v", err)
			failures++
		}
		bar.Increment()
	}
	bar.Finish()
	return failures
}

// buildRecipes installs each recipe, preferring its prebuilt artifact.
// A recipe that is neither installable nor buildable only warns.
func buildRecipes(mgr *pkgmgr.Manager, recipes []*recipe.Recipe, record func(step, status, detail string)) {
	if len(recipes) == 0 {
		record("recipes", store.StepStatusSkipped, "no recipe directories")
		return
	}
	warnings := 0
	for _, r := range recipes {
		if r.Artifact != "" {
			if err := mgr.InstallLocal([]string{r.Artifact}); err != nil {
				output.Warnf("recipe %s: prebuilt install failed: %v", r.Name, err)
				warnings++
			} else {
				output.Successf("Installed prebuilt %s", r.Name)
			}
			continue
		}
		if err := mgr.BuildAndInstall(r.Dir); err != nil {
			output.Warnf("recipe %s: %v", r.Name, err)
			warnings++
			continue
		}
		output.Successf("Built and installed %s", r.Name)
	}
	if warnings > 0 {
		record("recipes", store.StepStatusWarning, fmt.Sprintf("%d of %d recipes failed", warnings, len(recipes)))
	} else {
		record("recipes", store.StepStatusOK, fmt.Sprintf("%d recipes", len(recipes)))
	}
}

// copyRoots are the repository trees applied over the home directory, in
// order. Each existing root becomes one copy-plan entry with a pre-copy
// backup.
var copyRoots = []string{".config", ".local"}

// buildCopyPlan maps the repository's configuration trees onto home.
func buildCopyPlan(repoRoot, home, templateHome string) *dotfiles.CopyPlan {
	plan := &dotfiles.CopyPlan{
		TemplateHome: templateHome,
		Home:         home,
	}
	for _, root := range copyRoots {
		source := filepath.Join(repoRoot, root)
		if info, err := os.Stat(source); err != nil || !info.IsDir() {
			continue
		}
		plan.Entries = append(plan.Entries, dotfiles.CopyEntry{
			Source: source,
			Dest:   filepath.Join(home, root),
			Backup: true,
		})
	}
	return plan
}

// confirm prompts on stdin and returns true for an explicit yes.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
