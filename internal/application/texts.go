package application

// User-facing copy for the registration dialogue. Kept together so the
// wording can be reviewed in one place.

const welcomeText = `🏆 Добро пожаловать в бота регистрации на турнир

"M5 Domination Cup"


Я помогу вам зарегистрироваться на турнир и предоставлю всю необходимую информацию.


📝 Что я умею:
• Регистрация команды на турнир
• Просмотр информации о турнире
• Проверка статуса регистрации
• Ответы на часто задаваемые вопросы


🎮 Для начала регистрации нажмите кнопку "Регистрация" ниже.
ℹ️ Для получения дополнительной информации выберите "Информация о турнире".


Важно: Убедитесь, что у вас готова следующая информация:
• Название команды
• Список игроков (никнеймы)
• Контактные данные капитана (Дискорд или телеграм)


Удачи в турнире! 🎯`

const backToMenuText = "Вы вернулись в главное меню. Выберите нужное действие:"

const menuFallbackText = "Выберите нужное действие с помощью кнопок меню."

const teamNamePromptText = "🎮 Введи название твоей команды.\n\n" +
	"✍🏼 Напиши название в ответном сообщении."

const rosterPromptText = "Укажи состав команды. Тебе нужно указать:\n" +
	"1️⃣ 4 основных игрока\n" +
	"2️⃣ Запасных игроков (если есть)\n\n" +
	"⚠️ Формат:\n" +
	"📌 Игровой никнейм – @TelegramUsername\n\n" +
	"👀 Пример:\n\n" +
	"PlayerOne – @playerone\n" +
	"PlayerTwo – @playertwo\n" +
	"PlayerThree – @playerthree\n" +
	"PlayerFour – @playerfour\n" +
	"(5. Запасной – @reserveplayer)\n\n" +
	"📩 Отправь список в ответном сообщении."

const rosterRetryText = "⚠️ Необходимо указать минимум 4 игрока. " +
	"Пожалуйста, проверьте формат и количество игроков и отправьте список снова."

const rosterResendText = "🔄 Пожалуйста, отправьте список игроков заново в формате:\n\n" +
	"PlayerOne – @playerone\n" +
	"PlayerTwo – @playertwo\n" +
	"PlayerThree – @playerthree\n" +
	"PlayerFour – @playerfour\n" +
	"(5. Запасной – @reserveplayer)"

const confirmFallbackText = "Выберите действие с помощью кнопок ниже."

const contactPromptText = "📞 Теперь укажи контакты капитана команды.\n\n" +
	"💬 Напиши в ответном сообщении Telegram или Discord капитана.\n\n" +
	"👀 Пример:\n" +
	"📌 Telegram: @CaptainUsername\n" +
	"или\n" +
	"📌 Discord: Captain#1234"

const subscribeErrorText = "❌ Произошла ошибка при проверке подписки. Пожалуйста, убедитесь, что вы:\n\n" +
	"1. Перешли по ссылке в канал\n" +
	"2. Подписались на канал\n" +
	"3. Нажали кнопку \"Проверить подписку\"\n\n" +
	"Если проблема сохраняется, попробуйте позже."

const statusPromptText = "Для проверки статуса регистрации, пожалуйста, введите название вашей команды:"

const infoText = "🏆 M5 Domination Cup\n\n" +
	"📅 Информация о турнире будет добавлена позже."

const faqText = "❓ Часто задаваемые вопросы:\n\n" +
	"Информация будет добавлена позже."
