package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/orbithop/components"
	"github.com/pthm-cable/orbithop/config"
	"github.com/pthm-cable/orbithop/systems"
	"github.com/pthm-cable/orbithop/telemetry"
	"github.com/pthm-cable/orbithop/warp"
)

// ECS components for the demo world.

// worldPos is an entity's world position.
type worldPos struct {
	X, Y float64
}

// waypoint marks an entity as a warpable destination.
type waypoint struct {
	ID         components.DestinationID
	Name       string
	Discovered bool
}

// hazard marks an entity as a danger for emergency detection.
type hazard struct {
	Severity float64
	Radius   float64
}

// demoPlayer implements warp.PlayerModel for the demo.
type demoPlayer struct {
	pos     components.Vec2
	health  float64
	dangers []components.Danger
}

func (p *demoPlayer) Position() components.Vec2          { return p.pos }
func (p *demoPlayer) SetPosition(pos components.Vec2)    { p.pos = pos }
func (p *demoPlayer) Health() float64                    { return p.health }
func (p *demoPlayer) NearbyDangers() []components.Danger { return p.dangers }

// logHooks bridges warp notifications to slog; a real game would fan these
// out to particles, audio, and achievements.
type logHooks struct{}

func (logHooks) OnWarpCommitted(cost float64) { slog.Info("warp committed", "cost", cost) }
func (logHooks) OnWarpArrived()               { slog.Info("warp arrived") }
func (logHooks) OnWarpFailed(reason string)   { slog.Info("warp failed", "reason", reason) }

// pendingWarp holds commit-time facts for the telemetry row written at
// arrival: source position and context are gone by then.
type pendingWarp struct {
	dest      string
	distance  float64
	baseCost  float64
	emergency bool
}

// demoWorld owns the ECS world and the warp subsystem wiring.
type demoWorld struct {
	world ecs.World

	wpMapper     *ecs.Map2[worldPos, waypoint]
	wpFilter     *ecs.Filter2[worldPos, waypoint]
	hazardMapper *ecs.Map2[worldPos, hazard]
	hazardFilter *ecs.Filter2[worldPos, hazard]

	player *demoPlayer
	sub    *warp.Subsystem
	rng    *rand.Rand

	output     *telemetry.OutputManager
	pending    *pendingWarp
	lastWarped uint32
}

func newDemoWorld(sub *warp.Subsystem, output *telemetry.OutputManager, seed int64) *demoWorld {
	world := ecs.NewWorld()
	d := &demoWorld{
		world:  world,
		player: &demoPlayer{pos: components.Vec2{X: 640, Y: 600}, health: 100},
		sub:    sub,
		rng:    rand.New(rand.NewSource(seed)),
		output: output,
	}
	d.wpMapper = ecs.NewMap2[worldPos, waypoint](&d.world)
	d.wpFilter = ecs.NewFilter2[worldPos, waypoint](&d.world)
	d.hazardMapper = ecs.NewMap2[worldPos, hazard](&d.world)
	d.hazardFilter = ecs.NewFilter2[worldPos, hazard](&d.world)

	d.spawnWaypoints()
	d.spawnHazards(3)
	return d
}

// spawnWaypoints places a handful of orbit waypoints around the screen.
func (d *demoWorld) spawnWaypoints() {
	cfg := config.Cfg()
	w := float64(cfg.Screen.Width)
	h := float64(cfg.Screen.Height)

	specs := []struct {
		name       string
		fx, fy     float64
		discovered bool
	}{
		{"Khepri Station", 0.2, 0.25, true},
		{"Verdant Ring", 0.5, 0.15, true},
		{"Ashfall", 0.8, 0.3, true},
		{"Cinder Belt", 0.35, 0.55, true},
		{"Halcyon Drift", 0.65, 0.6, true},
		{"The Husk", 0.85, 0.8, false},
	}
	for i, spec := range specs {
		pos := worldPos{X: spec.fx * w, Y: spec.fy * h}
		wp := waypoint{
			ID:         components.DestinationID(fmt.Sprintf("wp-%d", i)),
			Name:       spec.name,
			Discovered: spec.discovered,
		}
		d.wpMapper.NewEntity(&pos, &wp)
	}
}

func (d *demoWorld) spawnHazards(count int) {
	cfg := config.Cfg()
	for i := 0; i < count; i++ {
		pos := worldPos{
			X: d.rng.Float64() * float64(cfg.Screen.Width),
			Y: d.rng.Float64() * float64(cfg.Screen.Height),
		}
		hz := hazard{Severity: 0.5 + d.rng.Float64()*0.5, Radius: 160}
		d.hazardMapper.NewEntity(&pos, &hz)
	}
}

// destinations collects every waypoint as a warp destination.
func (d *demoWorld) destinations() []components.Destination {
	var dests []components.Destination
	query := d.wpFilter.Query()
	for query.Next() {
		pos, wp := query.Get()
		dests = append(dests, components.Destination{
			ID:         wp.ID,
			Name:       wp.Name,
			Pos:        components.Vec2{X: pos.X, Y: pos.Y},
			Discovered: wp.Discovered,
		})
	}
	return dests
}

// refreshDangers updates the player's nearby-danger list from hazards in range.
func (d *demoWorld) refreshDangers() {
	d.player.dangers = d.player.dangers[:0]
	query := d.hazardFilter.Query()
	for query.Next() {
		pos, hz := query.Get()
		hazardPos := components.Vec2{X: pos.X, Y: pos.Y}
		if d.player.pos.Dist(hazardPos) <= hz.Radius {
			d.player.dangers = append(d.player.dangers, components.Danger{
				Pos:      hazardPos,
				Severity: hz.Severity,
			})
		}
	}
}

// update advances one frame.
func (d *demoWorld) update(dt float64) {
	d.refreshDangers()
	d.sub.Update(dt, d.player)
	d.recordCompletedWarp()
}

// noteCommit captures commit-time facts for the telemetry row. Called right
// after a successful commit, while the player is still at the source.
func (d *demoWorld) noteCommit(dest components.Destination, ctx *components.WarpContext) {
	distance := d.player.pos.Dist(dest.Pos)
	score := systems.DetectEmergency(ctx, d.sub.Memory().Behavior.LastWarpTime)
	d.pending = &pendingWarp{
		dest:      string(dest.ID),
		distance:  distance,
		baseCost:  systems.BaseWarpCost(distance),
		emergency: score > config.Cfg().Emergency.TriggerScore,
	}
}

// recordCompletedWarp writes a CSV row when a warp finished this frame.
func (d *demoWorld) recordCompletedWarp() {
	mem := d.sub.Memory()
	if mem.Behavior.TotalWarps == d.lastWarped {
		return
	}
	d.lastWarped = mem.Behavior.TotalWarps

	curve := mem.Efficiency.LearningCurve
	if d.output == nil || len(curve) == 0 {
		return
	}
	sample := curve[len(curve)-1]
	record := telemetry.WarpRecord{
		Time:      sample.Time,
		FinalCost: sample.Cost,
		Committed: true,
		Optimal:   sample.WasOptimal,
		Skill:     mem.Behavior.SkillLevel,
		Adapt:     mem.Efficiency.AdaptationLevel,
	}
	if d.pending != nil {
		record.Dest = d.pending.dest
		record.Distance = d.pending.distance
		record.BaseCost = d.pending.baseCost
		record.Emergency = d.pending.emergency
		d.pending = nil
	}
	if err := d.output.WriteWarp(record); err != nil {
		slog.Error("failed to write warp record", "error", err)
	}
}

// click handles a pick at screen coordinates.
func (d *demoWorld) click(x, y float64) {
	ctx := d.sub.ContextFrom(d.player)
	dest, picked, committed := d.sub.SelectAndMaybeCommit(x, y, d.destinations(), d.player, ctx)
	if committed {
		d.noteCommit(dest, ctx)
	} else if picked {
		quote := d.sub.Quote(dest, d.player, ctx)
		slog.Info("destination highlighted", "dest", dest.Name, "quote", quote)
	}
}

// draw renders the demo scene and HUD.
func (d *demoWorld) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(8, 10, 24, 255))

	selected, hasSelection := d.sub.Selected()

	query := d.wpFilter.Query()
	for query.Next() {
		pos, wp := query.Get()
		color := rl.Gray
		if wp.Discovered {
			color = rl.SkyBlue
		}
		if hasSelection && wp.ID == selected.ID {
			color = rl.Gold
		}
		rl.DrawCircle(int32(pos.X), int32(pos.Y), 10, color)
		rl.DrawText(wp.Name, int32(pos.X)+14, int32(pos.Y)-6, 10, rl.LightGray)
	}

	hq := d.hazardFilter.Query()
	for hq.Next() {
		pos, hz := hq.Get()
		rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(hz.Radius), rl.NewColor(150, 40, 40, 120))
	}

	// Player, with in-flight interpolation toward the target
	playerPos := d.player.pos
	rl.DrawCircle(int32(playerPos.X), int32(playerPos.Y), 6, rl.Green)

	status := d.sub.Status()
	if status.State == components.StateWarping {
		rl.DrawText("warping...", int32(playerPos.X)-20, int32(playerPos.Y)-24, 10, rl.Gold)
	}

	// HUD
	energyFrac := float32(0)
	if status.MaxEnergy > 0 {
		energyFrac = float32(status.Energy / status.MaxEnergy)
	}
	gui.ProgressBar(rl.NewRectangle(10, 10, 220, 18), "", "energy", energyFrac, 0, 1)
	gui.Label(rl.NewRectangle(10, 32, 320, 18),
		fmt.Sprintf("state: %s  warps: %d  skill: %.2f  adapt: %.2f",
			status.State, status.TotalWarps, status.SkillLevel, status.AdaptationLevel))
	if status.State == components.StateWarping {
		gui.ProgressBar(rl.NewRectangle(10, 54, 220, 12), "", "warp", float32(status.Progress), 0, 1)
	}

	rl.EndDrawing()
}

// runHeadless exercises the subsystem without graphics: random warps among
// discovered waypoints at a fixed tick rate.
func (d *demoWorld) runHeadless(maxTicks int) {
	const dt = 1.0 / 60.0
	cfg := config.Cfg()

	lastStats := uint32(0)
	for tick := 0; maxTicks <= 0 || tick < maxTicks; tick++ {
		d.update(dt)

		// Try a warp whenever idle, roughly every 2 seconds.
		if d.sub.State() == components.StateIdle && tick%120 == 60 {
			dests := d.destinations()
			if len(dests) > 0 {
				dest := dests[d.rng.Intn(len(dests))]
				ctx := d.sub.ContextFrom(d.player)
				if d.sub.Commit(dest, d.player, ctx) {
					d.noteCommit(dest, ctx)
				}
			}
		}

		mem := d.sub.Memory()
		if n := mem.Behavior.TotalWarps; n != lastStats && n%cfg.Telemetry.StatsEveryWarps == 0 {
			lastStats = n
			telemetry.CollectStats(mem).LogStats()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	saveDir := flag.String("save-dir", "", "Directory for the learned-state snapshot")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited, headless only)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Restore learned state if a snapshot exists.
	memory := systems.NewRouteMemory()
	snapshotPath := ""
	if *saveDir != "" {
		snapshotPath = filepath.Join(*saveDir, telemetry.SaveKey+".json")
		if snap, err := telemetry.LoadSnapshot(snapshotPath); err == nil {
			memory = snap.Restore()
			slog.Info("restored warp memory",
				"routes", len(memory.Routes),
				"warps", memory.Behavior.TotalWarps,
			)
		} else if !errors.Is(err, os.ErrNotExist) {
			// Corrupt save data degrades to a fresh memory, never a crash.
			slog.Error("snapshot unreadable, starting fresh", "error", err)
		}
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	sub := warp.NewWithMemory(logHooks{}, memory)
	world := newDemoWorld(sub, output, rngSeed)

	if *headless {
		slog.Info("starting headless run", "seed", rngSeed, "max_ticks", *maxTicks)
		world.runHeadless(*maxTicks)
	} else {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Orbit Hop")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		for !rl.WindowShouldClose() {
			dt := float64(rl.GetFrameTime())
			world.update(dt)

			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				mouse := rl.GetMousePosition()
				world.click(float64(mouse.X), float64(mouse.Y))
			}
			if rl.IsKeyPressed(rl.KeyEscape) {
				sub.ClearSelection()
			}

			world.draw()
		}
	}

	// Persist learned state on the way out.
	if *saveDir != "" {
		snap := telemetry.CaptureSnapshot(sub.Memory(), sub.Clock())
		if path, err := telemetry.SaveSnapshot(snap, *saveDir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else {
			slog.Info("saved warp memory", "path", path)
		}
	}

	// Flush the learning curve for offline analysis.
	if output != nil {
		var records []telemetry.CurveRecord
		for _, sample := range sub.Memory().Efficiency.LearningCurve {
			records = append(records, telemetry.CurveRecord{
				Time:       sample.Time,
				Cost:       sample.Cost,
				WasOptimal: sample.WasOptimal,
			})
		}
		if err := output.WriteCurve(records); err != nil {
			slog.Error("failed to write learning curve", "error", err)
		}
	}
}
