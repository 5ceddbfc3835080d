package main

import (
	"fmt"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════
//  STATUS
// ═══════════════════════════════════════════════════════════════════

func getStatusText(ctx *AppContext) string {
	devices := ctx.Engine.Devices()

	var b strings.Builder
	b.WriteString("💾 *Drive Monitor*\n\n")

	if len(devices) == 0 {
		b.WriteString("_No drives registered. Add one with_ `/watch /mnt/usb0`")
		return b.String()
	}

	active := 0
	for _, d := range devices {
		if d.Monitoring {
			active++
		}
	}
	b.WriteString(fmt.Sprintf("Watching %d/%d drives (%d slots max)\n\n", active, len(devices), maxDevices))

	for _, d := range devices {
		b.WriteString(deviceStatusBlock(d))
		b.WriteString("\n")
	}

	total, unacked := ctx.Engine.AlertCounts()
	if total > 0 {
		b.WriteString(fmt.Sprintf("🔔 %d alerts (%d unacknowledged) — `/alerts`\n", total, unacked))
	}

	uptime := time.Since(ctx.Bot.StartTime)
	b.WriteString(fmt.Sprintf("\n_Monitor uptime: %s_", formatDuration(uptime)))
	return b.String()
}

func deviceStatusBlock(d DeviceRecord) string {
	var b strings.Builder

	healthIcon := "✅"
	if !d.Healthy {
		healthIcon = "🚨"
	}
	watchIcon := "👁"
	if !d.Monitoring {
		watchIcon = "💤"
	}
	b.WriteString(fmt.Sprintf("%s %s `%s`\n", healthIcon, watchIcon, truncate(d.ID, 48)))

	if d.DataPoints == 0 {
		b.WriteString("   _No samples yet_\n")
		return b.String()
	}

	if d.Counts[MetricTemperature] > 0 {
		b.WriteString(fmt.Sprintf("   🌡 %.1f°C (avg %.1f, max %.1f)\n",
			d.Current[MetricTemperature], d.Mean[MetricTemperature], d.Max[MetricTemperature]))
	}
	if d.Counts[MetricCapacityUsage] > 0 {
		usage := d.Current[MetricCapacityUsage]
		b.WriteString(fmt.Sprintf("   📦 %s %.1f%% used\n", makeProgressBar(usage), usage))
	}
	if d.Counts[MetricReadSpeed] > 0 || d.Counts[MetricWriteSpeed] > 0 {
		b.WriteString(fmt.Sprintf("   ⚡ R %.1f MB/s · W %.1f MB/s\n",
			d.Current[MetricReadSpeed], d.Current[MetricWriteSpeed]))
	}
	if d.Counts[MetricSectorHealth] > 0 {
		b.WriteString(fmt.Sprintf("   🧱 Sector health %.0f%%\n", d.Current[MetricSectorHealth]))
	}
	b.WriteString(fmt.Sprintf("   _Samples: %d · errors: %d · warnings: %d_\n",
		d.DataPoints, d.ErrorCount, d.WarningCount))
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════
//  DEVICES
// ═══════════════════════════════════════════════════════════════════

func getDevicesText(ctx *AppContext) string {
	mounts := listRemovableMounts()

	var b strings.Builder
	b.WriteString("🔌 *Mounted drives*\n\n")
	if len(mounts) == 0 {
		b.WriteString("_No mounted drives found_")
		return b.String()
	}
	for _, m := range mounts {
		marker := "▫️"
		if ctx.Engine.IsMonitored(m) {
			marker = "👁"
		}
		b.WriteString(fmt.Sprintf("%s `%s`\n", marker, m))
	}
	b.WriteString("\n_Watch one with_ `/watch <mount>`")
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════
//  ALERTS
// ═══════════════════════════════════════════════════════════════════

const alertsShown = 15

func getAlertsText(ctx *AppContext) string {
	alerts := ctx.Engine.Alerts()

	var b strings.Builder
	b.WriteString("🔔 *Alert log*\n\n")

	if len(alerts) == 0 {
		b.WriteString("_No alerts recorded_")
		return b.String()
	}

	total, unacked := ctx.Engine.AlertCounts()
	b.WriteString(fmt.Sprintf("%d/%d entries, %d unacknowledged\n\n", total, maxAlerts, unacked))

	// Newest first, capped so the message stays readable.
	shown := 0
	for i := len(alerts) - 1; i >= 0 && shown < alertsShown; i-- {
		a := alerts[i]
		icon := "⚠️"
		if a.Critical {
			icon = "🚨"
		}
		ackMark := ""
		if a.Acknowledged {
			ackMark = " ✅"
		}
		b.WriteString(fmt.Sprintf("%s `%s` %s: %.2f %s (limit %.2f)%s\n   `%s` · %s\n",
			icon, a.DeviceID, a.Metric.String(), a.Value, a.Metric.Unit(), a.Threshold, ackMark,
			a.ID, a.Timestamp.Format("02 Jan 15:04:05")))
		shown++
	}
	if total > alertsShown {
		b.WriteString(fmt.Sprintf("\n_…and %d older entries_", total-alertsShown))
	}
	b.WriteString("\n\n`/ack <id>` to acknowledge · `/clear` to wipe")
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════
//  PREDICTION
// ═══════════════════════════════════════════════════════════════════

func getPredictionText(ctx *AppContext, deviceID string) string {
	pred, err := ctx.Engine.Predict(deviceID)
	if err != nil {
		return fmt.Sprintf("❌ Cannot predict for `%s`: %s", deviceID, err.Error())
	}

	icon := "✅"
	if pred.Critical {
		icon = "🚨"
	} else if pred.Warning {
		icon = "⚠️"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *Failure prediction* — `%s`\n\n", icon, deviceID))
	b.WriteString(fmt.Sprintf("📉 Failure probability: %s %.1f%%\n",
		makeProgressBar(pred.FailureProbability*100), pred.FailureProbability*100))
	b.WriteString(fmt.Sprintf("📅 Estimated lifetime: ~%d days\n\n", pred.DaysRemaining))
	b.WriteString(fmt.Sprintf("_%s_\n", pred.Recommendation))

	history := ctx.Engine.History(deviceID)
	if len(history) > 0 {
		last := history[len(history)-1]
		b.WriteString(fmt.Sprintf("\n_Based on %d samples, last: %d writes, %d errors, %d bad sectors_",
			len(history), last.TotalWrites, last.ErrorCount, last.BadSectors))
	}
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════
//  THRESHOLDS
// ═══════════════════════════════════════════════════════════════════

func getThresholdsText(ctx *AppContext) string {
	var b strings.Builder
	b.WriteString("📏 *Alert thresholds*\n\n")
	for k := MetricKind(0); k < MetricCount; k++ {
		v, err := ctx.Engine.Threshold(k)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("• %s: `%.2f %s`\n", k.String(), v, k.Unit()))
	}
	b.WriteString("\n_Warnings fire at 80%, criticals at 90% of the threshold._\n")
	b.WriteString("_Change one with_ `/threshold temperature 55`")
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════
//  HELP
// ═══════════════════════════════════════════════════════════════════

func getHelpText() string {
	return `💾 *Drive Health Monitor*

*Monitoring*
/status — monitored drives and their stats
/devices — mounted drives available to watch
/watch <mount> — start monitoring a drive
/unwatch <mount> — stop monitoring (stats kept)

*Alerts*
/alerts — alert log, newest first
/ack <id> — acknowledge one alert
/clear — wipe the alert log

*Prediction*
/predict <mount> — failure probability and lifetime estimate

*Tuning*
/threshold — show alert thresholds
/threshold <metric> <value> — override one
/export [path] — dump monitoring data to JSON

/help — this message`
}
