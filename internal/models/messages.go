package models

// messages is the user-facing text catalog. Kept in one place so handlers
// never hardcode wording; format directives are filled by the callers.
var messages = map[string]string{
	"welcome":             "👋 Welcome! Access to the chats requires linking your Roblox account.\n\nPress the button below to begin verification.",
	"btn_begin":           "🔐 Begin verification",
	"btn_code_added":      "✅ I added the code",
	"btn_new_code":        "🔄 Generate a new code",
	"already_verified":    "✅ Your account is already verified.",
	"sanctioned":          "🚫 Your linked account is currently banned; verification is unavailable.",
	"enter_handle":        "🔐 Verification\n\nStep 1 of 3:\nSend me your Roblox username (or a profile link):",
	"handle_not_found":    "❌ No Roblox account with that name was found. Check the spelling and send it again:",
	"service_unavailable": "⚠️ Roblox is not responding right now. Nothing was lost; please try again in a minute.",
	"code_issued":         "✅ Account found!\n\nStep 2 of 3:\nAdd this code to your Roblox profile description:\n\n<code>%s</code>\n\nThen press \"✅ I added the code\".",
	"code_regenerated":    "🔄 New code generated!\n\nAdd this code to your Roblox profile description:\n\n<code>%s</code>\n\nThen press \"✅ I added the code\".",
	"code_not_found":      "❌ The code was not found in your profile description. Add it and try again.",
	"verified":            "🎉 Verification complete!\n\nYou can now write in the chats guarded by this bot.\n\n• Roblox name: %s\n• Roblox ID: %d",
	"verified_broadcast":  "👋 New verified member:\n• Telegram: %s\n• Roblox name: %s\n• Roblox ID: %d",
	"cancelled":           "Verification cancelled. Use /verify to start over.",
	"no_session":          "There is no verification in progress. Use /verify to start.",
	"wrong_step":          "That action is not valid at this step of verification.",
	"profile":             "📊 Your profile\n\n• Roblox name: <code>%s</code>\n• Roblox ID: <code>%d</code>\n• Registered: <code>%s</code>\n• Role: %s\n• Status: %s\n• Verified: %s",
	"profile_missing":     "❌ No profile found. Use /start to begin verification.",
	"status_active":       "✅ active",
	"status_banned":       "🚫 banned",
	"status_muted":        "🔇 muted",
	"not_verified_warn":   "👤 %s, you are not verified! Message me privately with /start to verify.",
	"permission_denied":   "❌ You do not have permission to do that.",
	"admin_panel":         "👨‍💻 Admin panel\n\nChoose an action:",
	"btn_ban":             "🚫 Ban a user",
	"btn_mute":            "🔇 Mute a user",
	"btn_roles":           "👥 Role assignments",
	"btn_audit":           "📋 Recent audit log",
	"enter_ban_target":    "🚫 Ban\n\nSend the Roblox ID and the reason separated by a space:\n<code>123456789 spamming</code>",
	"enter_mute_target":   "🔇 Mute\n\nSend the Roblox ID and the reason separated by a space:\n<code>123456789 flooding</code>",
	"bad_target_format":   "❌ Wrong format. Send: <code>ID reason</code>",
	"pick_duration":       "%s\n\nRoblox ID: %d\nReason: %s\n\nChoose a duration:",
	"ban_applied":         "✅ User banned\n\n• Roblox ID: %d\n• Reason: %s\n• Duration: %s",
	"mute_applied":        "✅ User muted\n\n• Roblox ID: %d\n• Reason: %s\n• Duration: %s",
	"group_registered":    "✅ This group is now moderated.",
	"groups_only":         "This command only works inside a group.",
	"enter_role_target":   "👥 Role assignment\n\nSend the Telegram ID of the account:",
	"bad_account_id":      "❌ That does not look like a Telegram ID.",
	"account_not_found":   "❌ No account with that ID is known to the bot.",
	"pick_role":           "Account %d currently has role <b>%s</b>.\nChoose the new role:",
	"role_assigned":       "✅ Role updated: account %d is now <b>%s</b> (was %s).",
	"audit_header":        "📋 Recent privileged actions:",
	"audit_empty":         "The audit log is empty.",
	"roles_header":        "👥 Accounts with role <b>%s</b>:",
	"roles_empty":         "No accounts hold that role.",
	"error_generic":       "❌ Something went wrong. Please try again.",
	"help": "This bot links Telegram accounts to Roblox accounts and moderates the group.\n\n" +
		"/start — begin, or show your profile\n" +
		"/verify — start Roblox verification\n" +
		"/cancel — abandon the current verification\n" +
		"/profile — show your profile\n" +
		"/admin — admin panel\n" +
		"/roles <role> — list accounts by role\n" +
		"/audit — recent audit entries\n" +
		"/add_group — register this group for moderation",
}

// GetMessage returns the catalog text for a key, or the key itself when the
// catalog has no entry, so a missing key is visible instead of silent.
func GetMessage(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
