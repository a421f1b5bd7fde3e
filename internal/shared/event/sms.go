package event

// SmsDeliveryDestination is the default topic read by the SMS gateway.
const SmsDeliveryDestination string = "otp_sms_delivery"

type SmsDeliveryMessage struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}
