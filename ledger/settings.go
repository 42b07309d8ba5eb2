// ABOUTME: Reminder settings operations on the ledger store
// ABOUTME: Shallow-merges partial settings updates into the singleton record
package ledger

import "github.com/harperreed/daftar/models"

// SettingsPatch holds reminder settings to merge. Nil fields are left alone.
type SettingsPatch struct {
	Enabled                     *bool
	ShopName                    *string
	ReminderMessage             *string
	AutoOpenSMS                 *bool
	OverdueNotificationsEnabled *bool
	OverduePeriodDays           *int
}

// UpdateReminderSettings merges patch into the settings. Settings carry no
// sync status. A non-positive overdue period is ignored so the period stays
// greater than zero.
func (s *Store) UpdateReminderSettings(patch SettingsPatch) {
	s.mutate(func(st *State) Change {
		rs := &st.ReminderSettings
		if patch.Enabled != nil {
			rs.Enabled = *patch.Enabled
		}
		if patch.ShopName != nil {
			rs.ShopName = *patch.ShopName
		}
		if patch.ReminderMessage != nil {
			rs.ReminderMessage = *patch.ReminderMessage
		}
		if patch.AutoOpenSMS != nil {
			rs.AutoOpenSMS = *patch.AutoOpenSMS
		}
		if patch.OverdueNotificationsEnabled != nil {
			rs.OverdueNotificationsEnabled = *patch.OverdueNotificationsEnabled
		}
		if patch.OverduePeriodDays != nil && *patch.OverduePeriodDays > 0 {
			rs.OverduePeriodDays = *patch.OverduePeriodDays
		}
		return Change{Settings: true}
	})
}

// ReminderSettings returns the current settings.
func (s *Store) ReminderSettings() models.ReminderSettings {
	var rs models.ReminderSettings
	s.read(func(st *State) { rs = st.ReminderSettings })
	return rs
}
