package notification

import (
	"fmt"
	"time"

	"onetracker/models"
)

// opsTimezone is the zone operations emails are rendered in.
const opsTimezone = "Asia/Kolkata"

func formatInZone(t time.Time, zone string) (dateStr, timeStr string) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return local.Format("02 January 2006"), local.Format("03:04 PM")
}

func userEmailHTML(b *models.Booking) string {
	dateStr, timeStr := formatInZone(b.BookingDatetime, b.Timezone)
	return fmt.Sprintf(`<html><body>
<p>Dear <strong>%s</strong>,</p>
<p>Thank you for scheduling a product demonstration with <strong>OneTracker</strong>.
We look forward to discussing how our tracking solutions can support <strong>%s</strong>.</p>
<p><strong>Date:</strong> %s<br>
<strong>Time:</strong> %s (%s)<br>
<strong>Platform:</strong> Video Conference</p>
<p>Regards,<br>The OneTracker Team</p>
</body></html>`, b.Name, b.BusinessName, dateStr, timeStr, b.Timezone)
}

func opsEmailHTML(b *models.Booking) string {
	dateStr, timeStr := formatInZone(b.BookingDatetime, opsTimezone)
	message := ""
	if b.Message != nil {
		message = *b.Message
	}
	return fmt.Sprintf(`<html><body>
<p>A new demo booking has been submitted.</p>
<p><strong>Name:</strong> %s<br>
<strong>Business:</strong> %s<br>
<strong>Work Email:</strong> %s<br>
<strong>Contact Number:</strong> %s<br>
<strong>Date (%s):</strong> %s<br>
<strong>Time (%s):</strong> %s<br>
<strong>Declared Timezone:</strong> %s<br>
<strong>Message:</strong> %s</p>
</body></html>`, b.Name, b.BusinessName, b.WorkEmail, b.ContactNumber,
		opsTimezone, dateStr, opsTimezone, timeStr, b.Timezone, message)
}
