// Package timefmt converts Moment-style timestamp patterns (the format
// convention used by vault plugins and their settings files, e.g.
// "YYYY-MM-DD HH:mm:ss") into Go reference layouts.
//
// Layout(pattern) performs the conversion; Format(t, pattern) applies it.
// An empty pattern means DefaultPattern. Square brackets escape literal
// text: "[updated at] HH:mm" renders as "updated at 14:05".
//
// Only the commonly used token subset is supported (year/month/day,
// 24h and 12h time, weekday and month names, milliseconds, zone offsets).
// Unknown characters pass through unchanged, matching how Go layouts
// treat separators.
package timefmt
