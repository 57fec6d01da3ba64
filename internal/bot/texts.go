package bot

// Menu labels; routing matches them exactly.
const (
	LabelSubmit   = "📱 Оставить заявку"
	LabelAbout    = "ℹ️ О нас"
	LabelContacts = "🏬 Адреса и контакты"
	LabelUsers    = "👥 Пользователи"
)

const (
	textGreeting = "Привет! Выбери действие:"
	textAbout    = "Это информация о нас."
	textContacts = "Наши адреса и контакты: ..."
	textPhone    = "Наш телефон: +7 (999) 000-00-00"

	textMenuOnly      = "Пожалуйста, используйте кнопки меню."
	textNotAdmin      = "Эта команда доступна только администратору."
	textListingFailed = "Произошла ошибка. Попробуйте позже."
	textNoActiveForm  = "Активной заявки нет."

	textHelp = "Я помогу оформить заявку на trade-in.\n\n" +
		"/start — показать меню\n" +
		"/cancel — отменить текущую заявку\n" +
		"/help — эта справка"
	textHelpAdmin = "\n\nКоманды администратора:\n/users — список пользователей"
)

const (
	showPhoneUnique = "show_phone"
	showPhoneLabel  = "📞 Показать телефон"
)
