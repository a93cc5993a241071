package util

const (
	INTERNAL_SERVER_ERROR = "Something went wrong, please try again later"
	INVALID_REQUEST_BODY  = "Invalid request body"
	INVALID_ID            = "Invalid id"

	// auth
	AUTHORIZATION_HEADER_MISSING = "Not authorized, no token"
	INVALID_TOKEN                = "Not authorized, token failed"
	USER_NOT_FOUND               = "User not found"
	INVALID_CREDENTIALS          = "Invalid email or password"
	ACCOUNT_DEACTIVATED          = "Account is deactivated. Please contact administrator"
	ACCOUNT_LOCKED               = "Too many failed login attempts, please try again later"
	ADMIN_REGISTRATION_BLOCKED   = "Admin registration is not allowed"
	EMAIL_ALREADY_REGISTERED     = "User already exists with this email"
	LICENSE_ALREADY_REGISTERED   = "Doctor with this license number already exists"
	DOCTOR_FIELDS_REQUIRED       = "Specialization, license number, experience and department are required for doctors"
	ADMIN_ALREADY_EXISTS         = "Admin already exists"
	CURRENT_PASSWORD_INCORRECT   = "Current password is incorrect"
	ROLE_MISMATCH_FORMAT         = "This account is not registered as a %s"
	TOO_MANY_REQUESTS            = "Too many requests, please slow down"
	INVALID_ROLE                 = "Invalid role"
	REQUIRED_ACCOUNT_FIELDS      = "Name, email and password are required"
	PASSWORD_TOO_SHORT           = "password must be at least 7 characters long"
	PASSWORD_NEEDS_UPPER         = "password must contain at least one uppercase letter"
	PASSWORD_NEEDS_NUMBER        = "password must contain at least one number"
	PASSWORD_NEEDS_SPECIAL       = "password must contain at least one special character"

	// access
	ACCESS_DENIED           = "Not authorized to access this resource"
	ROLE_NOT_PERMITTED      = "User role is not authorized to access this route"
	PATIENT_PROFILE_MISSING = "Patient profile not found for this account"
	DOCTOR_PROFILE_MISSING  = "Doctor profile not found for this account"

	// appointments
	APPOINTMENT_NOT_FOUND          = "Appointment not found"
	DOCTOR_NOT_FOUND               = "Doctor not found"
	PATIENT_NOT_FOUND              = "Patient not found"
	INVALID_BLOOD_GROUP            = "Invalid blood group"
	SLOT_ALREADY_BOOKED            = "This time slot is already booked"
	INVALID_APPOINTMENT_STATUS     = "Invalid appointment status"
	PATIENT_CAN_ONLY_CANCEL        = "Patients can only cancel appointments"
	NOT_AUTHORIZED_FOR_APPOINTMENT = "Not authorized to update this appointment"
	NOT_AUTHORIZED_TO_DELETE       = "Not authorized to delete this appointment"
	PATIENT_ID_REQUIRED            = "patientId is required when booking on behalf of a patient"
	INVALID_DATE                   = "Date must be in YYYY-MM-DD format"
	INVALID_TIME                   = "Time must be in HH:MM format"
	INVALID_PRIORITY               = "Invalid appointment priority"
	REASON_REQUIRED                = "Reason for the appointment is required"
	INVALID_AVAILABILITY           = "Availability needs known weekdays with HH:MM start before end"

	// prescriptions
	PRESCRIPTION_NOT_FOUND       = "Prescription not found"
	PRESCRIPTION_LOCKED_UPDATE   = "Cannot update dispensed or completed prescription"
	PRESCRIPTION_LOCKED_DELETE   = "Cannot delete dispensed or completed prescription"
	INVALID_PRESCRIPTION_STATUS  = "Invalid prescription status"
	MEDICATIONS_REQUIRED         = "At least one medication is required"
	APPOINTMENT_DOCTOR_MISMATCH  = "Appointment does not belong to this doctor"
	APPOINTMENT_PATIENT_MISMATCH = "Appointment does not belong to this patient"

	// medical records
	DIAGNOSIS_REQUIRED            = "Diagnosis is required"
	MEDICAL_RECORD_NOT_FOUND      = "Medical record not found"
	INVALID_MEDICAL_RECORD_STATUS = "Invalid medical record status"

	// invoices
	INVOICE_NOT_FOUND       = "Invoice not found"
	INVOICE_ITEMS_REQUIRED  = "Invoice must contain at least one item"
	INVOICE_PAID_UPDATE     = "Cannot update paid invoice"
	INVOICE_PAID_DELETE     = "Cannot delete paid invoice"
	INVALID_PAYMENT_STATUS  = "Invalid payment status"
	INVALID_PAYMENT_METHOD  = "Invalid payment method"
	INVALID_INVOICE_ITEM    = "Invoice items need a description, a positive quantity and a non-negative unit price"
	INVALID_INVOICE_TOTAL   = "Discount cannot exceed subtotal plus tax"
	INVALID_PAYMENT_AMOUNT  = "Payment amount must be positive"
	INVOICE_CANCELLED       = "Cannot record payment on a cancelled invoice"
	PAYMENT_EXCEEDS_BALANCE = "Payment exceeds the outstanding balance"
	TOTAL_BELOW_PAID        = "Invoice total cannot be less than the amount already paid"

	// messages
	MESSAGE_CONTENT_REQUIRED  = "Subject and content are required"
	MESSAGE_NOT_FOUND         = "Message not found"
	RECIPIENT_NOT_FOUND       = "Recipient not found"
	RECIPIENT_REQUIRED        = "Recipient is required for direct messages"
	ONLY_ADMIN_BROADCASTS     = "Only admin can send announcements or system messages"
	INVALID_MESSAGE_TYPE      = "Invalid message type"
	INVALID_MESSAGE_PRIORITY  = "Invalid message priority"
	ONLY_RECIPIENT_CAN_MODIFY = "Only the recipient can change this message"

	// departments
	DEPARTMENT_NAME_REQUIRED   = "Department name is required"
	DEPARTMENT_NOT_FOUND       = "Department not found"
	DEPARTMENT_NAME_EXISTS     = "Department with this name already exists"
	HEAD_OF_DEPARTMENT_MISSING = "Head of department must be an existing doctor"

	// users
	INVALID_USER_STATUS = "Status must be Active or Suspended"
	CANNOT_DELETE_SELF  = "Admins cannot delete their own account"
	CANNOT_SUSPEND_SELF = "Admins cannot suspend their own account"
)
