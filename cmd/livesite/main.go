// cmd/livesite/main.go
//
// livesite turns judge exports into the configuration files a LiveSite
// scoreboard reads.
//
//	livesite contest [-input file|-] [-fetch]   writes contest.json / contest.yaml
//	livesite teams   [-teams file -groups file]  writes teams.json / teams.yaml
//	livesite preview [-input ... -teams ...]     browses both without writing

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/livesite-config/internal/artifact"
	"github.com/kingrea/livesite-config/internal/config"
	"github.com/kingrea/livesite-config/internal/domjudge"
	"github.com/kingrea/livesite-config/internal/logging"
	"github.com/kingrea/livesite-config/internal/report"
	"github.com/kingrea/livesite-config/internal/schedule"
	"github.com/kingrea/livesite-config/internal/teams"
	"github.com/kingrea/livesite-config/internal/tui"
)

const usage = `usage: livesite <command> [flags]

commands:
  contest   resolve the contest schedule and write contest.{json,yaml}
  teams     normalize teams and groups and write teams.{json,yaml}
  preview   browse the resolved schedule and team registry

run "livesite <command> -h" for command flags`

func main() {
	if len(os.Args) < 2 {
		die("%s", usage)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "contest":
		err = runContest(ctx, os.Args[2:])
	case "teams":
		err = runTeams(ctx, os.Args[2:])
	case "preview":
		err = runPreview(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		die("unknown command %q\n\n%s", os.Args[1], usage)
	}
	if err != nil {
		stop()
		die("%v", err)
	}
}

// session bundles what every command needs after flag parsing.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	client *domjudge.Client
	store  *artifact.Store
	loc    *time.Location
}

func (s *session) close() {
	_ = s.logger.Close()
}

// commonFlags are shared by every command.
type commonFlags struct {
	projectDir string
	format     string
	outDir     string
	timezone   string
	fetch      bool
	quiet      bool
	sets       keyValueFlag
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.projectDir, "project", "", "path to the project directory (defaults to cwd)")
	fs.StringVar(&c.format, "format", "", "output format: json or yaml (overrides config)")
	fs.StringVar(&c.outDir, "out", "", "output directory (overrides config)")
	fs.StringVar(&c.timezone, "tz", "", "IANA zone used when printing times (defaults to local)")
	fs.BoolVar(&c.fetch, "fetch", false, "fetch input from the judge API instead of files")
	fs.BoolVar(&c.quiet, "quiet", false, "only write log lines to the log file")
	fs.Var(&c.sets, "set", "config override (key=value, repeatable)")
}

func (c *commonFlags) setup(echo bool) (*session, error) {
	project := c.projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitLivesiteDir(absoluteProject); err != nil {
		return nil, fmt.Errorf("init %s: %w", config.LivesiteDir, err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for key, value := range c.sets {
		if err := cfg.Set(key, value); err != nil {
			return nil, err
		}
	}
	if c.format != "" {
		if err := cfg.Set("format", c.format); err != nil {
			return nil, err
		}
	}
	if c.outDir != "" {
		if err := cfg.Set("dir", c.outDir); err != nil {
			return nil, err
		}
	}
	format, err := artifact.ParseFormat(cfg.Project.Output.Format)
	if err != nil {
		return nil, err
	}
	loc := time.Local
	if tz := strings.TrimSpace(c.timezone); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load time zone %s: %w", tz, err)
		}
	}

	var logOpts []logging.Option
	if echo && !c.quiet {
		logOpts = append(logOpts, logging.WithEcho(os.Stderr))
	}
	logger, err := logging.New(absoluteProject, logOpts...)
	if err != nil {
		return nil, err
	}
	judge := cfg.Project.Judge
	client := domjudge.NewClient(domjudge.Settings{
		BaseURL:   judge.BaseURL,
		ContestID: judge.ContestID,
		Strict:    judge.Strict,
		Timeout:   time.Duration(judge.TimeoutSeconds) * time.Second,
	}, domjudge.WithLogger(logger))
	return &session{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  artifact.NewStore(cfg.OutputDir(), artifact.WithFormat(format)),
		loc:    loc,
	}, nil
}

func runContest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contest", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	input := fs.String("input", "-", "contest JSON file, or - for stdin")
	_ = fs.Parse(args)

	rt, err := common.setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.logger.Info("contest: run started")

	contest, err := loadContest(ctx, rt, common.fetch, *input)
	if err != nil {
		rt.logger.Error("contest: %v", err)
		return err
	}
	resolved, err := resolveContest(rt, contest)
	if err != nil {
		rt.logger.Error("contest: %v", err)
		return fmt.Errorf("resolve contest: %w", err)
	}
	path, err := rt.store.Write("contest", resolved)
	if err != nil {
		rt.logger.Error("contest: %v", err)
		return err
	}
	rt.logger.Info("contest: wrote %s", path)
	fmt.Println(report.Contest(resolved, path, rt.loc))
	return nil
}

func runTeams(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("teams", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	teamsFile := fs.String("teams", "", "teams JSON file (fetched from the judge when empty)")
	groupsFile := fs.String("groups", "", "groups JSON file")
	limit := fs.Int("show", 10, "number of teams listed in the summary (0 for all)")
	_ = fs.Parse(args)

	rt, err := common.setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.logger.Info("teams: run started")

	descriptors, groups, err := loadTeams(ctx, rt, common.fetch || *teamsFile == "", *teamsFile, *groupsFile)
	if err != nil {
		rt.logger.Error("teams: %v", err)
		return err
	}
	registry := normalizeTeams(rt, descriptors, groups)
	path, err := rt.store.Write("teams", registry)
	if err != nil {
		rt.logger.Error("teams: %v", err)
		return err
	}
	rt.logger.Info("teams: wrote %d teams to %s", registry.Len(), path)
	fmt.Println(report.Teams(registry, path, *limit))
	return nil
}

func runPreview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	input := fs.String("input", "", "contest JSON file, or - for stdin")
	teamsFile := fs.String("teams", "", "teams JSON file")
	groupsFile := fs.String("groups", "", "groups JSON file")
	_ = fs.Parse(args)

	rt, err := common.setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	var contest *schedule.ContestConfig
	if common.fetch || *input != "" {
		desc, err := loadContest(ctx, rt, common.fetch, *input)
		if err != nil {
			return err
		}
		resolved, err := resolveContest(rt, desc)
		if err != nil {
			return fmt.Errorf("resolve contest: %w", err)
		}
		contest = &resolved
	}
	var registry *teams.Registry
	if common.fetch || *teamsFile != "" {
		descriptors, groups, err := loadTeams(ctx, rt, common.fetch, *teamsFile, *groupsFile)
		if err != nil {
			return err
		}
		registry = normalizeTeams(rt, descriptors, groups)
	}
	if contest == nil && registry == nil {
		return fmt.Errorf("preview: nothing to show; pass -fetch, -input, or -teams")
	}
	lines, _ := rt.logger.Tail(8)
	program := tea.NewProgram(
		tui.NewPreview(contest, registry, tui.WithLogLines(lines), tui.WithLocation(rt.loc)),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run preview: %w", err)
	}
	return nil
}

func resolveContest(rt *session, contest domjudge.ContestDescriptor) (schedule.ContestConfig, error) {
	sb := rt.cfg.Project.Scoreboard
	resolver := schedule.NewResolver(schedule.Options{
		PlaceholderTitle: sb.Title,
		FrontPageHTML:    sb.FrontPageHTML,
		ProblemLink:      sb.ProblemLink,
		Logger:           rt.logger,
	})
	return resolver.Resolve(contest)
}

func normalizeTeams(rt *session, descriptors []domjudge.TeamDescriptor, groups []domjudge.GroupDescriptor) *teams.Registry {
	sb := rt.cfg.Project.Scoreboard
	normalizer := teams.NewNormalizer(teams.Options{
		DefaultPhoto:   sb.DefaultPhoto,
		DefaultCountry: sb.DefaultCountry,
		Logger:         rt.logger,
	})
	return normalizer.Normalize(descriptors, groups)
}

func loadContest(ctx context.Context, rt *session, fetch bool, input string) (domjudge.ContestDescriptor, error) {
	if fetch {
		return rt.client.Contest(ctx)
	}
	data, err := readInput(input)
	if err != nil {
		return domjudge.ContestDescriptor{}, err
	}
	return domjudge.DecodeContest(data)
}

func loadTeams(ctx context.Context, rt *session, fetch bool, teamsFile, groupsFile string) ([]domjudge.TeamDescriptor, []domjudge.GroupDescriptor, error) {
	if fetch {
		groups, err := rt.client.Groups(ctx)
		if err != nil {
			return nil, nil, err
		}
		descriptors, err := rt.client.Teams(ctx)
		if err != nil {
			return nil, nil, err
		}
		return descriptors, groups, nil
	}
	data, err := readInput(teamsFile)
	if err != nil {
		return nil, nil, err
	}
	descriptors, err := domjudge.DecodeTeams(data, rt.logger)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(groupsFile) == "" {
		return descriptors, nil, nil
	}
	data, err = readInput(groupsFile)
	if err != nil {
		return nil, nil, err
	}
	groups, err := domjudge.DecodeGroups(data, rt.logger)
	if err != nil {
		return nil, nil, err
	}
	return descriptors, groups, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("no input file given")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return data, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for key, value := range *kv {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return fmt.Errorf("override key is empty in %q", value)
	}
	if *kv == nil {
		*kv = keyValueFlag{}
	}
	(*kv)[key] = parts[1]
	return nil
}
