package textlayout

import (
	"fmt"
	"strings"

	"github.com/tauraamui/dragonrender/pkg/telemetry"
)

const separator = "  "

// FormatFlightTime renders whole seconds as m:ss.
func FormatFlightTime(secs uint32) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatDistance keeps metres below 1000 and switches to kilometres from 1000 up.
func FormatDistance(metres uint32) string {
	if metres >= 1000 {
		return fmt.Sprintf("%.2fkm", float64(metres)/1000)
	}
	return fmt.Sprintf("%3dm", metres)
}

// FormatData builds the single line regular readout from the enabled fields.
func FormatData(d telemetry.FrameData, opts Options) string {
	var sb strings.Builder
	field := func(enabled bool, format string, a ...interface{}) {
		if !enabled {
			return
		}
		fmt.Fprintf(&sb, format, a...)
		sb.WriteString(separator)
	}

	field(opts.ShowTime, "Time:%s", FormatFlightTime(d.FlightTime))
	field(opts.ShowSkyBat, "SBat:%4.1fV", d.SkyBat)
	field(opts.ShowGroundBat, "GBat:%4.1fV", d.GroundBat)
	field(opts.ShowSignal, "Signal:%d", d.Signal)
	field(opts.ShowLatency, "Latency:%3dms", d.Latency)
	field(opts.ShowBitrate, "Bitrate:%4.1fMbps", d.BitrateMbps)
	field(opts.ShowDistance, "Distance:%s", FormatDistance(d.Distance))

	return sb.String()
}

// FormatDebug builds the extended sensor readout from the enabled fields.
func FormatDebug(d telemetry.DebugFrameData, opts Options) string {
	var sb strings.Builder
	field := func(enabled bool, format string, a ...interface{}) {
		if !enabled {
			return
		}
		fmt.Fprintf(&sb, format, a...)
		sb.WriteString(separator)
	}

	field(opts.ShowChannel, "CH:%d", d.Channel)
	field(opts.ShowSNR, "GSNR:%.1f SSNR:%.1f", d.GSNR, d.SSNR)
	field(opts.ShowGroundTemp, "G:%.1f°C", d.GTemp)
	field(opts.ShowSkyTemp, "S:%.1f°C", d.STemp)
	field(opts.ShowFrame, "Frame:%d", d.Frame)
	field(opts.ShowErr, "Gerr:%d SErr:%d %d", d.GErr, d.SErr, d.SErrExt)
	field(opts.ShowISO, "[ISO:%d Mode:%d Exp:%d]", d.ISO, d.ISOMode, d.ISOExp)
	field(opts.ShowGain, "[Gain:%.2f Exp:%.3fms Lx:%d]", d.Gain, d.GainExp, d.GainLx)
	field(opts.ShowCCT, "[CCT:%d]", d.CCT)
	field(opts.ShowRB, "[RB:%.2f %.2f]", d.RB, d.RBExt)

	return sb.String()
}
