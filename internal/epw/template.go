package epw

import "slices"

// The NSRDB provides no design conditions, periods or ground temperatures.
// These placeholder blocks keep EnergyPlus and other readers satisfied.
var headerTemplate = []HeaderBlock{
	{HeaderDesignConditions, []string{
		"1", "This is ficticious header data to make the EPW readable", "",
		"Heating", "1", "3.8", "4.9", "-3.7", "2.8", "10.7", "-1.2", "3.4", "11.2", "12.9",
		"12.1", "11.6", "12.2", "2.2", "150",
		"Cooling", "8", "8.5", "28.3", "17.2", "25.7", "16.7", "23.6", "16.2", "18.6", "25.7",
		"17.8", "23.9", "17", "22.4", "5.9", "310", "16.1", "11.5", "19.9", "15.3", "10.9",
		"19.2", "14.7", "10.4", "18.7", "52.4", "25.8", "49.8", "23.8", "47.6", "22.4", "2038",
		"Extremes", "12.8", "11.5", "10.6", "22.3", "1.8", "34.6", "1.5", "2.3", "0.8", "36.2",
		"-0.1", "37.5", "-0.9", "38.8", "-1.9", "40.5",
	}},
	{HeaderPeriods, []string{
		"6",
		"Summer - Week Nearest Max Temperature For Period", "Extreme", "8/ 1", "8/ 7",
		"Summer - Week Nearest Average Temperature For Period", "Typical", "9/ 5", "9/11",
		"Winter - Week Nearest Min Temperature For Period", "Extreme", "2/ 1", "2/ 7",
		"Winter - Week Nearest Average Temperature For Period", "Typical", "2/15", "2/21",
		"Autumn - Week Nearest Average Temperature For Period", "Typical", "12/ 6", "12/12",
		"Spring - Week Nearest Average Temperature For Period", "Typical", "5/29", "6/ 4",
	}},
	{HeaderGroundTemps, []string{
		"3",
		".5", "", "", "",
		"10.86", "10.57", "11.08", "11.88", "13.97", "15.58", "16.67", "17.00", "16.44", "15.19", "13.51", "11.96",
		"2", "", "", "",
		"11.92", "11.41", "11.51", "11.93", "13.33", "14.60", "15.61", "16.15", "16.03", "15.32", "14.17", "12.95",
		"4", "", "", "",
		"12.79", "12.27", "12.15", "12.31", "13.10", "13.96", "14.74", "15.28", "15.41", "15.10", "14.42", "13.60",
	}},
	{HeaderHolidays, []string{"No", "0", "0", "0"}},
	{HeaderComments1, []string{"NREL PSM3 DATA"}},
	{HeaderComments2, []string{"https://bit.ly/NREL--PSM3-2-EPW"}},
	{HeaderDataPeriods, []string{"1", "1", "Data", "Sunday", " 1/ 1", "12/31"}},
}

// TemplateHeaders returns a fresh copy of the fixed header blocks that follow
// LOCATION. Callers may modify the result freely.
func TemplateHeaders() []HeaderBlock {
	out := make([]HeaderBlock, len(headerTemplate))
	for i, h := range headerTemplate {
		out[i] = HeaderBlock{Name: h.Name, Fields: slices.Clone(h.Fields)}
	}
	return out
}
