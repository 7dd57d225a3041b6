package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Kyiv")
	if err != nil {
		panic(err)
	}
}

// force timezone to be Kyiv because the host can end up anywhere
// while all pharmacy data and check intervals are user-local
func Now() time.Time {
	return time.Now().In(Location)
}
