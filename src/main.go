// Package main is the soullyrics command line entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/contre95/soullyrics/src/features/config"
	"github.com/contre95/soullyrics/src/features/enrich"
	"github.com/contre95/soullyrics/src/features/hosting"
	"github.com/contre95/soullyrics/src/features/logging"
	"github.com/contre95/soullyrics/src/features/lyrics"
	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
)

var (
	cfgFile    string
	cfgManager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "soullyrics",
	Short: "Soullyrics - lyrics for the song you are listening to",
	Long: `Soullyrics finds lyrics, chords and dance information for a track, either given
as "Artist - Title" or read from the running media player.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		m, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfgManager = m
		slog.SetDefault(logging.SetupLogger(cfgManager))
		return nil
	},
}

var lyricsCmd = &cobra.Command{
	Use:   "lyrics <artist - title>",
	Short: "Print lyrics for a track",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sync, _ := cmd.Flags().GetBool("sync")
		refresh, _ := cmd.Flags().GetBool("refresh")
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			track := music.ParseTrack(strings.Join(args, " "))
			var (
				resp lyrics.Response
				err  error
			)
			if refresh {
				resp, err = a.lyrics.NextLyrics(ctx, track, sync, "")
			} else {
				resp, err = a.lyrics.GetLyrics(ctx, track, sync)
			}
			if err != nil {
				return err
			}
			printLyrics(cmd, track, resp)
			return nil
		})
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <artist - title>",
	Short: "Print lyrics from the next source after a previous lookup",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sync, _ := cmd.Flags().GetBool("sync")
		token, _ := cmd.Flags().GetString("token")
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			track := music.ParseTrack(strings.Join(args, " "))
			resp, err := a.lyrics.NextLyrics(ctx, track, sync, token)
			if errors.Is(err, lyrics.ErrInvalidContinuation) {
				return fmt.Errorf("%w: tokens only live for one process, run \"serve\" to keep them", err)
			}
			if err != nil {
				return err
			}
			printLyrics(cmd, track, resp)
			return nil
		})
	},
}

var chordsCmd = &cobra.Command{
	Use:   "chords <artist - title>",
	Short: "List tab and chord pages for a track",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetBool("open")
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			urls := a.chords.Search(ctx, music.ParseTrack(strings.Join(args, " ")))
			if len(urls) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chords found.")
				return nil
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
				if open {
					if err := openBrowser(u); err != nil {
						slog.Warn("Failed to open browser", "url", u, "error", err)
					}
				}
			}
			return nil
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <artist - title>",
	Short: "Print dance, tempo and release details for a track",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			track := music.ParseTrack(strings.Join(args, " "))
			if err := a.enrich.Enrich(ctx, track); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), track.String())
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and follow the media player",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), runServe)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print lyrics every time the media player changes track",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return runWatch(ctx, cmd, a)
		})
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")

	lyricsCmd.Flags().Bool("sync", false, "prefer time-synced lyrics")
	lyricsCmd.Flags().Bool("refresh", false, "skip the cache and query the sources again")
	nextCmd.Flags().Bool("sync", false, "prefer time-synced lyrics")
	nextCmd.Flags().String("token", "", "continuation token from a previous lookup")
	chordsCmd.Flags().Bool("open", false, "open every link in the browser")

	rootCmd.AddCommand(lyricsCmd, nextCmd, chordsCmd, infoCmd, serveCmd, watchCmd)
}

func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	a, err := newApp(cfgManager)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to release resources", "error", err)
		}
	}()
	return fn(ctx, a)
}

func runServe(ctx context.Context, a *app) error {
	watcher, err := a.newWatcher()
	if err != nil {
		return err
	}
	watcher.OnTrack(func(ctx context.Context, track *music.Track) {
		// Warm the cache so clients polling /api/lyrics get an instant answer.
		if _, err := a.lyrics.GetLyrics(ctx, track, a.cfg.Get().Lyrics.PreferSynced); err != nil {
			slog.Warn("Failed to prefetch lyrics", "error", err)
		}
	})

	if a.store != nil {
		if n, err := a.store.Len(); err == nil {
			slog.Info("Lyrics cache ready", "entries", n)
		}
	}

	server := hosting.NewServer(a.cfg, hosting.Services{
		Lyrics:     a.lyrics,
		Chords:     a.chords,
		Enrich:     a.enrich,
		NowPlaying: watcher,
		Metrics:    metrics.NewService(a.registry),
	})

	a.watchLocal(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := watcher.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if a.cfg.Get().Server.Enabled {
		g.Go(server.Start)
		g.Go(func() error {
			<-ctx.Done()
			slog.Info("Shutting down server...")
			return server.Shutdown()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server gracefully shut down.")
	return nil
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app) error {
	watcher, err := a.newWatcher()
	if err != nil {
		return err
	}
	a.enrich.OnUpdate(func(track *music.Track) {
		fmt.Fprintln(cmd.OutOrStdout(), enrich.NewTrackInfo(track).Summary())
	})
	watcher.OnTrack(func(ctx context.Context, track *music.Track) {
		resp, err := a.lyrics.GetLyrics(ctx, track, a.cfg.Get().Lyrics.PreferSynced)
		if err != nil {
			slog.Error("Failed to get lyrics", "error", err)
			return
		}
		printLyrics(cmd, track, resp)
		go func() {
			if err := a.enrich.Enrich(ctx, track); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("Failed to enrich track", "error", err)
			}
		}()
	})

	a.watchLocal(ctx)
	if err := watcher.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printLyrics(cmd *cobra.Command, track *music.Track, resp lyrics.Response) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - %s\n", track.Artist, track.Title)
	fmt.Fprintf(out, "Source: %s", resp.Result.Service)
	if resp.Result.URL != "" {
		fmt.Fprintf(out, " (%s)", resp.Result.URL)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "\n%s\n", resp.Result.Lyrics)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
