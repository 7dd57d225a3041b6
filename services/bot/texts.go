package bot

const welcomeText = `Вітаю! Я — 🤖 *Де ліки Bot*.

Я допоможу вам відстежувати наявність потрібних ліків у вибраних містах України через сервіс [tabletki.ua](https://tabletki.ua).

Що я вмію:
🔎 Шукати препарати у вашому місті
➕ Додавати нові міста та ліки для відстеження
📋 Показувати список відстежуваних препаратів
🔔 Повідомляти, коли ліки з'являться в аптеках
⚙️ Налаштовувати інтервал перевірки

*Використовуйте меню або команди для керування ботом.*

_Бажаю здоров'я!_
`

const (
	buttonAddDrug  = "🔎 Додати препарат для відстеження"
	buttonList     = "📋 Список відстежуваних"
	buttonCheckNow = "🔎 Перевірити зараз"
	buttonSettings = "⚙️ Налаштування"
)

const (
	textNothingTracked    = "У вас ще немає препаратів для відстеження."
	textEnterDrugName     = "Введіть назву препарату для пошуку:"
	textSearchingDrugs    = "🔎 Пошук препаратів \"%s\"..."
	textNoDrugsFound      = "Нічого не знайдено. Спробуйте інший запит."
	textPickDrug          = "Оберіть препарат для відстеження з варіантів нижче:"
	textPickCity          = "Оберіть місто для відстеження препарату:"
	textNoCitiesFound     = "Не знайдено підходящих міст. Введіть назву міста ще раз:"
	textCheckingNow       = "🔎 Виконується перевірка наявності препаратів..."
	textNothingAvailable  = "❌ Жодних відстежуваних препаратів не знайдено в обраних містах."
	textDrugLost          = "Помилка: не вибрано препарат. Почніть спочатку."
	textTrackingConfirmed = "✅ Препарат *%s* буде відстежуватися у місті *%s*.\n\nВи отримаєте повідомлення, коли препарат з'явиться в наявності."
	textAlreadyTracked    = "ℹ️ Препарат *%s* у місті *%s* вже відстежується."
	textTrackingRemoved   = "🗑️ Препарат *%s* у місті *%s* видалено з відстеження."
	textRemoveNotFound    = "❌ Препарат не знайдено."
	textIntervalPrompt    = "⏰ Поточний інтервал перевірки: кожні %d годин.\n\nОберіть новий інтервал:"
	textIntervalChanged   = "⏰ Інтервал перевірки змінено на *%d годин*."
	textGenericError      = "Виникла помилка при обробці запиту."
)
