package model

// HourCategory is one of the fixed pay-rate classifications used on the
// payroll side. Timesheet exports carry no category breakdown, so category
// comparisons are always one-sided.
type HourCategory string

// The payroll export's category vocabulary. Order matters: exports place the
// hour columns in this sequence, and positional mapping falls back to it when
// the banner row is unreadable.
const (
	CategoryDayRate       HourCategory = "Day Rate"
	CategoryNightRate     HourCategory = "Night Rate"
	CategorySatDay        HourCategory = "Sat Day"
	CategorySatNight      HourCategory = "Sat Night"
	CategorySunDay        HourCategory = "Sun Day"
	CategorySunNight      HourCategory = "Sun Night"
	CategoryOldDaySatRate HourCategory = "Old Day/Sat Rate"
	CategoryOldNightRate  HourCategory = "Old Night Rate"
	CategoryOldSunRate    HourCategory = "Old Sun Rate"
	CategoryExtraShift    HourCategory = "Extra Shift Bonus"
	CategoryBackpay       HourCategory = "Backpay"
	CategoryBankHoliday   HourCategory = "Bank Holiday"
	CategoryHolidayPay    HourCategory = "Holiday Pay"
	CategoryCrossFnDay1   HourCategory = "Cross Function Day1"
	CategoryCrossFnDay2   HourCategory = "Cross Function Day2"
	CategoryCrossFnSun1   HourCategory = "Cross Function Sun1"
	CategoryTraining      HourCategory = "Training/Meeting"
	CategoryStatSickPay   HourCategory = "Statutory Sick Pay"
)

// HourCategories lists every category in export column order.
func HourCategories() []HourCategory {
	return []HourCategory{
		CategoryDayRate,
		CategoryNightRate,
		CategorySatDay,
		CategorySatNight,
		CategorySunDay,
		CategorySunNight,
		CategoryOldDaySatRate,
		CategoryOldNightRate,
		CategoryOldSunRate,
		CategoryExtraShift,
		CategoryBackpay,
		CategoryBankHoliday,
		CategoryHolidayPay,
		CategoryCrossFnDay1,
		CategoryCrossFnDay2,
		CategoryCrossFnSun1,
		CategoryTraining,
		CategoryStatSickPay,
	}
}

// String returns the category's display label.
func (c HourCategory) String() string {
	return string(c)
}
