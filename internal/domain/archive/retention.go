package archive

// Retention periods in days per record type, aligned with HIPAA minimum
// record-keeping requirements. Prescriptions keep the longest window
// because of controlled-substance audit rules.
var retentionDays = map[RecordType]int{
	RecordTypePatient:      2190,
	RecordTypePrescription: 2555,
	RecordTypeLabOrder:     2190,
	RecordTypeAppointment:  1095,
}

const defaultRetentionDays = 2190

// RetentionFor returns the retention period for a record type.
func RetentionFor(rt RecordType) int {
	if d, ok := retentionDays[rt]; ok {
		return d
	}
	return defaultRetentionDays
}
