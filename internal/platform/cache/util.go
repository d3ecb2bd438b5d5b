package cache

import (
	"time"
)

// TimeUntilNextRefresh は now から次の hour 時（loc の現地時刻）までの期間を返します。
// 日次バーの更新時刻にキャッシュの失効を合わせるために使います。
func TimeUntilNextRefresh(now time.Time, hour int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	// 今日の更新時刻を過ぎていれば翌日
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// DailyTTL は tz の hour 時までの期間を返します。タイムゾーンが読めなければ UTC を使います。
func DailyTTL(hour int, tz string) time.Duration {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return TimeUntilNextRefresh(time.Now(), hour, loc)
}
