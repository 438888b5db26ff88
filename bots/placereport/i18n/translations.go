package i18n

var translations = map[Lang]map[Key]string{
	EN: {
		KeyWelcome:        "Hi! Press the menu button to open the map 🗺️",
		KeyMapButton:      "🗺️ Open map",
		KeyDecodeError:    "Sorry, this link is broken. Please open the place on the map and try again.",
		KeyReasonMenu:     "You want to report a problem with {place}.\nChoose the problem:",
		KeyDescribePrompt: "Write what is wrong with {place}:",
		KeyThanks:         "✅ Thank you! We accepted the report about {place}:\n{reason}",
		KeyTextAck:        "✅ Your message has been sent to the admin. Thank you!",
		KeyDeliveryFailed: "⚠️ Something went wrong and your report was not delivered. Please try again later.",

		KeyReasonClosed:     "🔴 Closed permanently",
		KeyReasonNotAllowed: "⛔ Dogs are not allowed",
		KeyReasonLocation:   "📍 Wrong location",
		KeyReasonInfo:       "✏️ Wrong description",
		KeyReasonOther:      "📝 Other (write a message)",

		KeyAdminTitleReason: "📩 NEW REPORT",
		KeyAdminTitleText:   "📩 REPORT (TEXT)",
		KeyAdminPlace:       "📍 Place: {place}",
		KeyAdminAddress:     "🏠 Address: {address}",
		KeyAdminReason:      "⚠️ Reason: {reason}",
		KeyAdminText:        "💬 Text: {text}",
		KeyAdminFrom:        "👤 From: {reporter}",
		KeyAdminLang:        "🌐 Language: {lang}",
		KeyAdminReportID:    "🆔 {id}",
	},
	RU: {
		KeyWelcome:        "Привет! Нажмите кнопку меню, чтобы открыть карту 🗺️",
		KeyMapButton:      "🗺️ Открыть карту",
		KeyDecodeError:    "Извините, ссылка повреждена. Откройте место на карте и попробуйте ещё раз.",
		KeyReasonMenu:     "Вы хотите сообщить об ошибке в {place}.\nВыберите проблему из списка:",
		KeyDescribePrompt: "Напишите текстом, что не так с {place}:",
		KeyThanks:         "✅ Спасибо! Мы приняли жалобу по {place}:\n{reason}",
		KeyTextAck:        "✅ Ваше сообщение отправлено админу. Спасибо!",
		KeyDeliveryFailed: "⚠️ Что-то пошло не так, жалоба не доставлена. Попробуйте позже.",

		KeyReasonClosed:     "🔴 Закрылось навсегда",
		KeyReasonNotAllowed: "⛔ Не пускают с собакой",
		KeyReasonLocation:   "📍 Неверная геолокация",
		KeyReasonInfo:       "✏️ Ошибка в описании",
		KeyReasonOther:      "📝 Другое (написать текстом)",

		KeyAdminTitleReason: "📩 НОВАЯ ЖАЛОБА",
		KeyAdminTitleText:   "📩 ЖАЛОБА (ТЕКСТ)",
		KeyAdminPlace:       "📍 Место: {place}",
		KeyAdminAddress:     "🏠 Адрес: {address}",
		KeyAdminReason:      "⚠️ Причина: {reason}",
		KeyAdminText:        "💬 Текст: {text}",
		KeyAdminFrom:        "👤 От: {reporter}",
		KeyAdminLang:        "🌐 Язык: {lang}",
		KeyAdminReportID:    "🆔 {id}",
	},
	LV: {
		KeyWelcome:        "Sveiki! Nospiediet izvēlnes pogu, lai atvērtu karti 🗺️",
		KeyMapButton:      "🗺️ Atvērt karti",
		KeyDecodeError:    "Atvainojiet, saite ir bojāta. Atveriet vietu kartē un mēģiniet vēlreiz.",
		KeyReasonMenu:     "Jūs vēlaties ziņot par problēmu ar {place}.\nIzvēlieties problēmu:",
		KeyDescribePrompt: "Uzrakstiet, kas nav kārtībā ar {place}:",
		KeyThanks:         "✅ Paldies! Mēs saņēmām ziņojumu par {place}:\n{reason}",
		KeyTextAck:        "✅ Jūsu ziņa ir nosūtīta administratoram. Paldies!",
		KeyDeliveryFailed: "⚠️ Radās kļūda, ziņojums netika nosūtīts. Lūdzu, mēģiniet vēlāk.",

		KeyReasonClosed:     "🔴 Slēgts pavisam",
		KeyReasonNotAllowed: "⛔ Ar suni neielaiž",
		KeyReasonLocation:   "📍 Nepareiza atrašanās vieta",
		KeyReasonInfo:       "✏️ Kļūda aprakstā",
		KeyReasonOther:      "📝 Cits (uzrakstīt tekstu)",

		KeyAdminTitleReason: "📩 JAUNS ZIŅOJUMS",
		KeyAdminTitleText:   "📩 ZIŅOJUMS (TEKSTS)",
		KeyAdminPlace:       "📍 Vieta: {place}",
		KeyAdminAddress:     "🏠 Adrese: {address}",
		KeyAdminReason:      "⚠️ Iemesls: {reason}",
		KeyAdminText:        "💬 Teksts: {text}",
		KeyAdminFrom:        "👤 No: {reporter}",
		KeyAdminLang:        "🌐 Valoda: {lang}",
		KeyAdminReportID:    "🆔 {id}",
	},
}
