/*
Package admin exposes host-level health: a snapshot endpoint and a live
websocket stream of CPU, memory and disk usage.
*/
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"FitCoach/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var StartTime = time.Now()

const gb = 1024 * 1024 * 1024

// HealthUpdateType tags every message sent on the health stream.
const HealthUpdateType = "SYSTEM_HEALTH_UPDATE"

// HealthUpdate is one message of the live health stream.
type HealthUpdate struct {
	Type string `json:"type"`
	Data struct {
		CPUUsage  string `json:"cpu_usage"`
		RAMUsage  string `json:"ram_usage"`
		DiskUsage string `json:"disk_usage"`
		Timestamp string `json:"timestamp"`
	} `json:"data"`
}

func percent(p float64) string { return fmt.Sprintf("%.2f%%", p) }

func gigabytes(b uint64) string { return fmt.Sprintf("%.2f GB", float64(b)/gb) }

// cpuPercent samples without blocking; gopsutil then reports usage since the
// previous call.
func cpuPercent(ctx context.Context) (float64, bool) {
	p, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(p) == 0 {
		return 0, false
	}
	return p[0], true
}

// ServerHealth collects system-level stats. Sections whose probe fails are
// left out.
func ServerHealth(ctx context.Context) map[string]interface{} {
	out := map[string]interface{}{"status": "online"}

	runtime := map[string]interface{}{
		"uptime":     time.Since(StartTime).Round(time.Second).String(),
		"start_time": StartTime.Format(time.RFC3339),
	}
	if h, err := host.InfoWithContext(ctx); err == nil {
		runtime["os"] = h.OS
		runtime["platform"] = h.Platform
		runtime["arch"] = h.KernelArch
		runtime["hostname"] = h.Hostname
	}
	out["runtime"] = runtime

	if p, ok := cpuPercent(ctx); ok {
		cores, _ := cpu.CountsWithContext(ctx, true)
		out["cpu"] = map[string]interface{}{
			"usage_percent": percent(p),
			"cores":         cores,
		}
	}

	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out["memory"] = map[string]interface{}{
			"total_gb":     gigabytes(v.Total),
			"used_gb":      gigabytes(v.Used),
			"used_percent": percent(v.UsedPercent),
			"free_gb":      gigabytes(v.Free),
		}
	}

	if d, err := disk.UsageWithContext(ctx, "/"); err == nil {
		out["disk"] = map[string]interface{}{
			"total_gb":     gigabytes(d.Total),
			"used_gb":      gigabytes(d.Used),
			"used_percent": percent(d.UsedPercent),
		}
	}

	return out
}

// GetServerHealthHandler returns a ServerHealth snapshot.
func GetServerHealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, ServerHealth(c.Request().Context()))
}

func healthUpdate(ctx context.Context, now time.Time) HealthUpdate {
	u := HealthUpdate{Type: HealthUpdateType}
	u.Data.Timestamp = now.Format("15:04:05")

	if p, ok := cpuPercent(ctx); ok {
		u.Data.CPUUsage = percent(p)
	}
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		u.Data.RAMUsage = percent(v.UsedPercent)
	}
	if d, err := disk.UsageWithContext(ctx, "/"); err == nil {
		u.Data.DiskUsage = percent(d.UsedPercent)
	}
	return u
}

// HealthStream pushes a HealthUpdate to every connected client on each tick.
type HealthStream struct {
	hub      *utility.Hub
	interval time.Duration
}

func NewHealthStream(hub *utility.Hub, interval time.Duration) *HealthStream {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &HealthStream{hub: hub, interval: interval}
}

// Handler upgrades the request and keeps the client registered until it
// disconnects. Clients are not expected to send anything.
func (s *HealthStream) Handler(c echo.Context) error {
	ws, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	s.hub.Register(id, ws)
	defer s.hub.Unregister(id)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Run broadcasts until ctx is done. Ticks with no clients are skipped.
func (s *HealthStream) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Health broadcaster stopped")
			return
		case now := <-ticker.C:
			if s.hub.Len() == 0 {
				continue
			}

			msg, err := json.Marshal(healthUpdate(ctx, now))
			if err != nil {
				log.Error().Err(err).Msg("Failed to encode health update")
				continue
			}
			s.hub.Broadcast(msg)
		}
	}
}
