package haptic

// LookupVendor returns a short name for a Bluetooth SIG company ID, used to
// label wearables that advertise no local name.
// See: https://www.bluetooth.com/specifications/assigned-numbers/
func LookupVendor(companyID uint16) string {
	if name, ok := vendorNames[companyID]; ok {
		return name
	}
	return ""
}

var vendorNames = map[uint16]string{
	0x004C: "Apple",
	0x0075: "Samsung",
	0x0157: "Huami",
	0x0310: "Xiaomi",
	0x027D: "Huawei",
	0x038F: "Garmin",
	0x03DA: "Fitbit",
	0x006B: "Polar",
	0x0269: "Oura",
	0x0473: "Withings",
	0x0078: "Nike",
	0x00E0: "Google",
	0x0059: "Nordic",
	0x015D: "Espressif",
	0x02E5: "Espressif",
}
