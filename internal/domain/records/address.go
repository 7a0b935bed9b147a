package records

// normalizeAddress maps an inbound address row to the form block, accepting
// every field-name alias the records API has been seen to use.
func normalizeAddress(rec AddressRecord) Address {
	first := func(vals ...string) string {
		for _, v := range vals {
			if v != "" {
				return v
			}
		}
		return ""
	}
	return Address{
		HomeFlatNo:  first(rec.HomeFlatNo, rec.HomeFlatNumber, rec.FlatNo),
		StreetNo:    first(rec.StreetNo, rec.StreetNumber, rec.Street),
		Town:        first(rec.Town, rec.City, rec.TownCity),
		FullAddress: first(rec.FullAddress, rec.Address, rec.CompleteAddress),
	}
}

// recordIdentity resolves the row's identity, accepting either of the two id
// field names. A zero identity means none.
func recordIdentity(rec AddressRecord) *int64 {
	id := rec.AddressID
	if id == 0 {
		id = rec.ID
	}
	if id == 0 {
		return nil
	}
	return &id
}

// ResolveAddress picks the current address for the patient being edited. It
// prefers the row whose patientId matches; when no row matches but rows
// exist, it falls back to the first row — behavior inherited from the source
// system and possibly a latent wrong-patient reuse, kept as-is. When no rows
// exist it returns an empty address and a nil identity, which signals
// "create" on save.
func ResolveAddress(recs []AddressRecord, patientID int64) (Address, *int64) {
	for _, rec := range recs {
		if rec.PatientID == patientID {
			return normalizeAddress(rec), recordIdentity(rec)
		}
	}
	if len(recs) > 0 {
		return normalizeAddress(recs[0]), recordIdentity(recs[0])
	}
	return Address{}, nil
}

// ResolveDetail picks the health-detail row for the patient, preferring a
// patientId match and falling back to the first row, mirroring the address
// selection.
func ResolveDetail(rows []DetailPayload, patientID int64) (DetailPayload, bool) {
	for _, row := range rows {
		if row.PatientID == patientID {
			return row, true
		}
	}
	if len(rows) > 0 {
		return rows[0], true
	}
	return DetailPayload{}, false
}
