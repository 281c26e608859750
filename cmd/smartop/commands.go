package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smartop/builder"
	"github.com/katalvlaran/smartop/compute"
	"github.com/katalvlaran/smartop/distribution/remote"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/matrix/ops"
)

// withEngine runs fn on a fresh engine and releases it afterwards.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context, c compute.Computation) (matrix.Matrix, error)) error {
	c, release, err := a.newEngine()
	if err != nil {
		return err
	}
	m, err := fn(cmd.Context(), c)
	if rerr := release(); err == nil {
		err = rerr
	}
	if err != nil {
		return err
	}

	return a.emit(m)
}

func (a *app) binaryCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " A.csv B.csv",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.load(args...)
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, c compute.Computation) (matrix.Matrix, error) {
				switch name {
				case "add":
					return c.Add(ctx, ms[0], ms[1])
				case "subtract":
					return c.Subtract(ctx, ms[0], ms[1])
				}
				return c.Multiply(ctx, ms[0], ms[1])
			})
		},
	}
}

func (a *app) transposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transpose A.csv",
		Short: "Aᵗ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.load(args...)
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, c compute.Computation) (matrix.Matrix, error) {
				return c.Transpose(ctx, ms[0])
			})
		},
	}
}

func (a *app) scaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale ALPHA A.csv",
		Short: "α·A",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alpha, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("scale: alpha %q: %w", args[0], err)
			}
			ms, err := a.load(args[1])
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, c compute.Computation) (matrix.Matrix, error) {
				return c.Scale(ctx, alpha, ms[0])
			})
		},
	}
}

func (a *app) invertCmd() *cobra.Command {
	var cholesky bool
	cmd := &cobra.Command{
		Use:   "invert A.csv",
		Short: "A⁻¹, or the least-squares pseudo-inverse of a rectangular A",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.load(args...)
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, c compute.Computation) (matrix.Matrix, error) {
				if cholesky {
					return c.InvertByCholesky(ctx, ms[0])
				}
				return c.Invert(ctx, ms[0])
			})
		},
	}
	cmd.Flags().BoolVar(&cholesky, "cholesky", false, "invert through a Cholesky factor of the Gram matrix")

	return cmd
}

func (a *app) laplacianCmd() *cobra.Command {
	var (
		spectrum bool
		maxIter  int
	)
	cmd := &cobra.Command{
		Use:   "laplacian A.csv",
		Short: "D − A for an adjacency matrix A",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.load(args...)
			if err != nil {
				return err
			}
			if !spectrum {
				return a.withEngine(cmd, func(ctx context.Context, c compute.Computation) (matrix.Matrix, error) {
					return c.Laplacian(ctx, ms[0])
				})
			}

			c, release, err := a.newEngine()
			if err != nil {
				return err
			}
			defer release()
			l, err := c.Laplacian(cmd.Context(), ms[0])
			if err != nil {
				return err
			}
			f, err := a.factoryFor()
			if err != nil {
				return err
			}
			values, _, err := ops.Eigen(f, l, a.cfg.Tolerance, maxIter)
			if err != nil {
				return err
			}
			a.printf("components: %d\n", ops.Components(values, a.cfg.Tolerance))
			for i, v := range values {
				a.printf("lambda[%d] = %.6g\n", i, v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&spectrum, "spectrum", false, "print the Laplacian eigenvalues and component count instead of the matrix")
	cmd.Flags().IntVar(&maxIter, "max-iter", 10000, "Jacobi rotation limit for --spectrum")

	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats A.csv",
		Short: "Dimensions, non-zeros and row sparseness statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ms, err := a.load(args...)
			if err != nil {
				return err
			}
			m := ms[0]
			st := matrix.Stats(m)
			a.printf("repr:     %s\n", compute.Repr(m))
			a.printf("dims:     %dx%d\n", m.Rows(), m.Cols())
			a.printf("nnz:      %d\n", m.NonZeros())
			a.printf("sparsity: %.6f\n", matrix.Sparsity(m))
			a.printf("mean:     %.6f\n", st.Mean)
			a.printf("std:      %.6f\n", st.StdDev)
			a.printf("mode:     %.6f\n", st.Mode)
			return nil
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		rows, cols int
		density    float64
		seed       int64
		spd        bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random sparse matrix",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			f, err := a.factoryFor()
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed))
			var m matrix.Matrix
			if spd {
				m, err = matrix.RandomSPD(f, rows, density, rng)
			} else {
				m, err = matrix.RandomSparse(f, rows, cols, density, rng)
			}
			if err != nil {
				return err
			}
			return a.emit(m)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10, "row count")
	cmd.Flags().IntVar(&cols, "cols", 10, "column count")
	cmd.Flags().Float64Var(&density, "density", 0.1, "probability of a non-zero cell")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&spd, "spd", false, "generate a symmetric positive-definite rows×rows matrix")

	return cmd
}

func (a *app) graphCmd() *cobra.Command {
	var (
		n, m     int
		p        float64
		seed     int64
		directed bool
	)
	cmd := &cobra.Command{
		Use:   "graph TOPOLOGY",
		Short: "Write the adjacency matrix of a generated graph",
		Long:  "Write the adjacency matrix of a generated graph. Topologies: " + strings.Join(builder.TopologyNames(), ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := a.factoryFor()
			if err != nil {
				return err
			}
			ctor, err := builder.ByName(args[0], n, m, p)
			if err != nil {
				return err
			}
			opts := []builder.BuilderOption{builder.WithSeed(seed)}
			if directed {
				opts = append(opts, builder.WithDirected())
			}
			adj, err := builder.BuildAdjacency(f, opts, ctor)
			if err != nil {
				return err
			}
			return a.emit(adj)
		},
	}
	cmd.Flags().IntVarP(&n, "vertices", "n", 10, "vertex count (grid rows, bipartite left side)")
	cmd.Flags().IntVarP(&m, "second", "m", 1, "grid columns or bipartite right side")
	cmd.Flags().Float64Var(&p, "p", 0.1, "edge probability of the random topology")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&directed, "directed", false, "store each edge once, as u→v")

	return cmd
}

func (a *app) workerCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve distribution tasks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := remote.NewServer(remote.ServerConfig{
				ThreadMultiplier: a.cfg.ThreadMultiplier,
				Options:          a.cfg.MatrixOptions(),
				Logger:           a.log,
			})
			hs := &http.Server{Addr: listen, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() { errCh <- hs.ListenAndServe() }()
			a.log.Info("worker listening", logging.String("addr", listen))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := hs.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			a.log.Info("worker stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":8080", "listen address")

	return cmd
}
