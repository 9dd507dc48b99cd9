package constvars

const (
	URLParamSessionID = "session_id"
	URLParamPatientID = "patient_id"
)

const (
	FormFieldSessionID   = "session_id"
	FormFieldPatientID   = "patient_id"
	FormFieldPatientName = "patient_name"
	FormFieldAge         = "age"
	FormFieldGender      = "gender"
	FormFieldStudyDate   = "study_date"
	FormFieldImageType   = "image_type"
)
