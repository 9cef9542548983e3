// seehuhn.de/go/mask - raster mask editing
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/config"
	"seehuhn.de/go/mask/render"
	"seehuhn.de/go/mask/store"
	"seehuhn.de/go/mask/testcases"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	job        string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "maskctl",
		Short:         "Replay mask editing scenarios and inspect labelling jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.job, "job", "j", "", "job name, overrides the configuration")

	root.AddCommand(
		a.replayCmd(),
		a.listCmd(),
		a.renderCmd(),
		a.pdfCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		cfg, err = config.Load(a.configPath)
		if err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.job != "" {
		cfg.Storage.Job = a.job
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})
	a.log = slog.New(handler)
	return nil
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(fn func(st *store.Store) error) (err error) {
	st, err := store.Open(a.cfg.Store(a.log))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(st)
}

// loadJob reads the configured job into a fresh manager.
func (a *app) loadJob(ctx context.Context, st *store.Store) (*annotation.Manager, error) {
	snap, err := st.Load(ctx, a.cfg.Storage.Job)
	if err != nil {
		return nil, err
	}
	m := annotation.NewManager(snap.Scene, a.log)
	if err := m.Restore(snap); err != nil {
		return nil, err
	}
	return m, nil
}

func (a *app) replayCmd() *cobra.Command {
	var save bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay editing scenarios and check their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := a.withStore(func(st *store.Store) error {
				for _, fname := range args {
					sc, err := testcases.Load(fname)
					if err != nil {
						return err
					}
					e, err := testcases.Play(ctx, sc, st, a.log)
					if err != nil {
						return err
					}
					a.log.Info("scenario passed", "name", sc.Name, "objects", e.Manager().Len())
					fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", sc.Name)

					if save {
						err := st.Save(ctx, a.cfg.Storage.Job, e.Manager().Snapshot())
						if err != nil {
							return err
						}
					}
				}
				return nil
			})
			if err != nil || metricsAddr == "" {
				return err
			}
			return serveMetrics(ctx, metricsAddr, a.log)
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "save the final state of each scenario as the job")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "after replaying, serve metrics on this address until interrupted")
	return cmd
}

// serveMetrics exposes the editing counters until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Info("serving metrics", "addr", addr)

	select {
	case err := <-errc:
		return errors.Wrap(err, "metrics server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *app) listCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the objects of the job, or all jobs with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return a.withStore(func(st *store.Store) error {
				if all {
					jobs, err := st.Jobs(ctx)
					if err != nil {
						return err
					}
					for _, job := range jobs {
						fmt.Fprintln(out, job)
					}
					return nil
				}

				m, err := a.loadJob(ctx, st)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFRAME\tLABEL\tAREA\tVISIBLE\tSOURCE\tGROUP")
				for _, obj := range m.All() {
					group := "-"
					if obj.LinkedGroup != uuid.Nil {
						group = obj.LinkedGroup.String()[:8]
					}
					fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%t\t%s\t%s\n",
						obj.ID, obj.Frame, obj.Label, obj.Region.Area(),
						obj.Visible, obj.Source, group)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list the names of all jobs")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var frame, scale, selected int
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write one frame of the job as a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(func(st *store.Store) error {
				m, err := a.loadJob(ctx, st)
				if err != nil {
					return err
				}
				if !m.Scene().HasFrame(frame) {
					return errors.Wrapf(annotation.ErrFrameRange, "frame %d", frame)
				}
				img := render.Image(m.Scene(), m.Objects(frame), m.Appearance(), render.Options{
					Scale:    scale,
					Selected: selected,
				})
				return writeFile(output, func(f *os.File) error {
					return png.Encode(f, img)
				})
			})
		},
	}
	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "frame to render")
	cmd.Flags().IntVar(&scale, "scale", 1, "integer enlargement factor")
	cmd.Flags().IntVar(&selected, "selected", 0, "id of the object to highlight")
	cmd.Flags().StringVarP(&output, "output", "o", "frame.png", "output file")
	return cmd
}

func (a *app) pdfCmd() *cobra.Command {
	var frame, selected int
	var output string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write one frame of the job as a PDF page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(func(st *store.Store) error {
				m, err := a.loadJob(ctx, st)
				if err != nil {
					return err
				}
				if !m.Scene().HasFrame(frame) {
					return errors.Wrapf(annotation.ErrFrameRange, "frame %d", frame)
				}
				return render.WritePDF(output, m.Scene(), m.Objects(frame), m.Appearance(), selected)
			})
		},
	}
	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "frame to render")
	cmd.Flags().IntVar(&selected, "selected", 0, "id of the object to highlight")
	cmd.Flags().StringVarP(&output, "output", "o", "frame.pdf", "output file")
	return cmd
}

func writeFile(fname string, write func(f *os.File) error) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
