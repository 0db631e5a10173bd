package shell

import (
	"fmt"
	"os"

	"github.com/soypat/pointmesh"
	"github.com/soypat/pointmesh/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	flagSide       = "side"
	flagStep       = "step"
	flagRadius     = "radius"
	flagCount      = "count"
	flagVolume     = "volume"
	flagBreakMin   = "break-min"
	flagBreakMax   = "break-max"
	flagSeed       = "seed"
	flagFactor     = "factor"
	flagIterations = "iterations"
	flagIndex      = "index"
	flagFile       = "file"
	flagOut        = "out"
	flagEdges      = "edges"
)

func (sh *Shell) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create",
			Usage: "replace the point cloud with a generated shape",
			Subcommands: []*cli.Command{
				{
					Name:  "cube",
					Usage: "fill a cube centered at the origin",
					Flags: []cli.Flag{
						&cli.Float64Flag{Name: flagSide, Value: 1, Usage: "side length"},
						&cli.Float64Flag{Name: flagStep, Value: 0.1, Usage: "grid spacing"},
					},
					Action: func(c *cli.Context) error {
						return sh.create(pointmesh.Cube{Side: c.Float64(flagSide), Step: c.Float64(flagStep)})
					},
				},
				{
					Name:  "sphere",
					Usage: "fill a sphere centered at the origin",
					Flags: []cli.Flag{
						&cli.Float64Flag{Name: flagRadius, Value: 1, Usage: "sphere radius"},
						&cli.Float64Flag{Name: flagStep, Value: 0.1, Usage: "grid spacing"},
					},
					Action: func(c *cli.Context) error {
						return sh.create(pointmesh.Sphere{Radius: c.Float64(flagRadius), Step: c.Float64(flagStep)})
					},
				},
				{
					Name:  "random",
					Usage: "scatter points uniformly in a box centered at the origin",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: flagCount, Value: 1000, Usage: "number of points"},
						&cli.Float64Flag{Name: flagVolume, Value: 1, Usage: "half extent of the box along every axis"},
						&cli.Float64Flag{Name: flagBreakMin, Value: 30, Usage: "lower bound of breaking thresholds"},
						&cli.Float64Flag{Name: flagBreakMax, Value: 100, Usage: "upper bound of breaking thresholds"},
						&cli.Uint64Flag{Name: flagSeed, Value: 1, Usage: "random seed"},
					},
					Action: func(c *cli.Context) error {
						v := c.Float64(flagVolume)
						return sh.create(pointmesh.Random{
							Count:    c.Int(flagCount),
							Volume:   r3.Vec{X: v, Y: v, Z: v},
							BreakMin: c.Float64(flagBreakMin),
							BreakMax: c.Float64(flagBreakMax),
							Seed:     c.Uint64(flagSeed),
						})
					},
				},
			},
		},
		{
			Name:  "clear",
			Usage: "remove every point and connection",
			Action: func(c *cli.Context) error {
				return sh.mesh.Do(func(m *pointmesh.Mesh) error {
					m.Clear()
					return nil
				})
			},
		},
		{
			Name:  "connect",
			Usage: "connect every pair of points closer than a radius",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: flagRadius, Required: true, Usage: "connection radius"},
			},
			Action: func(c *cli.Context) error {
				var edges int
				err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
					if err := m.Connect(c.Float64(flagRadius)); err != nil {
						return err
					}
					edges = len(m.Edges())
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(sh.out, "%d connections\n", edges)
				return nil
			},
		},
		{
			Name:  "prune",
			Usage: "remove points without connections",
			Action: func(c *cli.Context) error {
				var removed, remain int
				err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
					removed = m.Prune()
					remain = m.Len()
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(sh.out, "removed %d points, %d remain\n", removed, remain)
				return nil
			},
		},
		{
			Name:  "relax",
			Usage: "move points towards the centroid of their neighbors",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: flagFactor, Value: 0.5, Usage: "blend factor in [0, 1]"},
				&cli.IntFlag{Name: flagIterations, Value: 3, Usage: "number of relaxation steps"},
			},
			Action: func(c *cli.Context) error {
				return sh.mesh.Do(func(m *pointmesh.Mesh) error {
					return m.RelaxN(c.Float64(flagFactor), c.Int(flagIterations))
				})
			},
		},
		{
			Name:  "stats",
			Usage: "print connectivity statistics",
			Action: func(c *cli.Context) error {
				st, err := sh.mesh.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintf(sh.out, "points: %d\nedges: %d\naverage degree: %.4f\nisolated: %d\nmax degree: %d\n",
					st.Points, st.Edges, st.AverageDegree, st.Isolated, st.MaxDegree)
				return nil
			},
		},
		{
			Name:  "neighbors",
			Usage: "print the neighbors of a point",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: flagIndex, Required: true, Usage: "point index"},
			},
			Action: func(c *cli.Context) error {
				i := c.Int(flagIndex)
				var (
					nb []int
					ok bool
				)
				err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
					if i < 0 || i >= m.Len() {
						return fmt.Errorf("index %d out of range [0, %d): %w", i, m.Len(), pointmesh.ErrInputInvalid)
					}
					nb, ok = m.Neighbors(i)
					return nil
				})
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(sh.out, "point %d has no neighbors\n", i)
					return nil
				}
				fmt.Fprintln(sh.out, nb)
				return nil
			},
		},
		{
			Name:  "save",
			Usage: "write point positions to a binary file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagFile, Value: sh.pointsFile, Usage: "destination file"},
			},
			Action: func(c *cli.Context) error {
				path := c.String(flagFile)
				n, err := render.WritePointsFile(path, sh.mesh.Positions())
				if err != nil {
					return err
				}
				sh.log.Info("points saved", zap.String("file", path), zap.Int("points", n))
				fmt.Fprintf(sh.out, "wrote %d points to %s\n", n, path)
				return nil
			},
		},
		{
			Name:  "load",
			Usage: "replace the point cloud with points read from a binary file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagFile, Value: sh.pointsFile, Usage: "source file"},
			},
			Action: func(c *cli.Context) error {
				path := c.String(flagFile)
				pts, err := render.ReadPointsFile(path)
				if err != nil {
					return err
				}
				err = sh.mesh.Do(func(m *pointmesh.Mesh) error {
					m.Load(pts)
					return nil
				})
				if err != nil {
					return err
				}
				sh.log.Info("points loaded", zap.String("file", path), zap.Int("points", len(pts)))
				fmt.Fprintf(sh.out, "read %d points from %s\n", len(pts), path)
				return nil
			},
		},
		{
			Name:  "render",
			Usage: "draw a PNG preview of the point cloud",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagOut, Required: true, Usage: "output PNG file"},
				&cli.BoolFlag{Name: flagEdges, Usage: "draw connections"},
			},
			Action: func(c *cli.Context) error {
				var (
					pts   []r3.Vec
					edges [][2]int
				)
				err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
					pts = m.Positions()
					if c.Bool(flagEdges) {
						edges = m.Edges()
					}
					return nil
				})
				if err != nil {
					return err
				}
				return writeFile(c.String(flagOut), func(fp *os.File) error {
					return render.PNG(fp, pts, edges, render.DefaultPreview())
				})
			},
		},
		{
			Name:  "histogram",
			Usage: "plot the distribution of point degrees to a PNG file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagOut, Required: true, Usage: "output PNG file"},
			},
			Action: func(c *cli.Context) error {
				var degrees []float64
				err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
					degrees = m.Degrees()
					return nil
				})
				if err != nil {
					return err
				}
				return writeFile(c.String(flagOut), func(fp *os.File) error {
					return render.DegreeHistogram(fp, degrees)
				})
			},
		},
		{
			Name:    "quit",
			Aliases: []string{"exit"},
			Usage:   "leave the shell",
			Action: func(c *cli.Context) error {
				return ErrQuit
			},
		},
	}
}

func (sh *Shell) create(g pointmesh.Generator) error {
	var n int
	err := sh.mesh.Do(func(m *pointmesh.Mesh) error {
		if err := m.Create(g); err != nil {
			return err
		}
		n = m.Len()
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "created %d points\n", n)
	return nil
}

// writeFile creates path and passes it to fn. The file is removed if fn
// fails so no partial output is left behind.
func writeFile(path string, fn func(fp *os.File) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = fn(fp)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
