package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"elysia/internal/admin"
	"elysia/internal/engine"
	"elysia/internal/entitlement"
	"elysia/internal/persona"
	"elysia/internal/reward"
	"elysia/internal/session"
	"elysia/internal/store"
)

const helpText = `Команды:
!профиль — твой прогресс
!магазин — что можно открыть за очки
!купить <награда> — открыть награду
!совместимость — проверка совместимости
!персона [имя] — выбрать собеседницу
!имя <имя> — как к тебе обращаться
!пол <м|ж> — как о тебе говорить
!настройка <архетип|стиль|черты|фразы> <текст> — настроить мой характер
!триал — активировать пробный доступ
!ролеплей [сценарий] — начать ролевую сцену (подписка)
!фото — особое настроение (подписка)
!стоп — закончить сцену
Просто пиши мне, и я отвечу 💕`

// roleplayScenarios maps a scenario name to its opening line.
var roleplayScenarios = map[string]string{
	"кафе":    "*Мы сидим в уютном кафе у окна, за которым идёт дождь* Наконец-то мы встретились вживую...",
	"прогулка": "*Вечерний парк, фонари только зажглись* Как хорошо, что ты позвал меня гулять...",
	"кино":    "*Зал почти пустой, на экране начинаются титры* Я взяла нам один большой попкорн, не против?",
	"пляж":    "*Тёплый песок, шум волн* Я так давно хотела увидеть море вместе с тобой...",
}

// runCommand handles one "!" command and returns the reply text.
func (b *Bot) runCommand(userID, text string) string {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	now := time.Now()

	switch cmd {
	case "!помощь", "!help":
		return helpText
	case "!профиль":
		return b.profile(userID, now)
	case "!магазин":
		return b.shopList(userID)
	case "!купить":
		if len(args) == 0 {
			return "Укажи награду: !купить <название>"
		}
		return b.buy(userID, args[0])
	case "!совместимость":
		return b.compatibility(userID)
	case "!персона":
		return b.pickPersona(userID, strings.Join(args, " "))
	case "!имя":
		return b.setName(userID, strings.Join(args, " "))
	case "!пол":
		return b.setGender(userID, strings.Join(args, " "))
	case "!настройка":
		return b.customize(userID, args)
	case "!триал":
		return b.startTrial(userID, now)
	case "!ролеплей":
		return b.startRoleplay(userID, strings.Join(args, " "), now)
	case "!фото":
		return b.startHotPics(userID, now)
	case "!стоп":
		return b.stopSessions(userID)
	case "!админ":
		return b.adminCommand(userID, args, now)
	}
	return "Не знаю такой команды. Напиши !помощь"
}

func (b *Bot) profile(userID string, now time.Time) string {
	u, err := b.store.GetUser(userID)
	if err != nil {
		b.log.Error().Err(err).Msg("profile load failed")
		return "Не получилось открыть профиль."
	}
	achievements, _ := b.store.CountAchievements(userID)
	tier, _ := b.engine.Access().Resolve(userID, now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "💖 Твой профиль\n")
	fmt.Fprintf(&sb, "%s — уровень %d\n", engine.LevelTitle(u.Level), u.Level)
	fmt.Fprintf(&sb, "Очки: %d", u.Points)
	if next := engine.NextLevelThreshold(u.Level); next > 0 {
		fmt.Fprintf(&sb, " (до следующего уровня %d)", next-u.Points)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Отношения: %s (%d из 5)\n", engine.RelationshipTitle(u.RelationshipLevel), u.RelationshipLevel)
	fmt.Fprintf(&sb, "Серия: %d дн., всего дней: %d, сердца: %d 💕\n", u.StreakDays, u.DaysActive, u.Hearts)
	fmt.Fprintf(&sb, "Сообщений: %d, достижений: %d\n", u.MessagesCount, achievements)
	fmt.Fprintf(&sb, "Настроение: %s, доступ: %s", u.Mood, tier)
	return sb.String()
}

func (b *Bot) shopList(userID string) string {
	owned, err := b.shop.Owned(userID)
	if err != nil {
		b.log.Error().Err(err).Msg("shop list failed")
		return "Магазин сейчас закрыт, загляни позже."
	}
	have := make(map[string]bool, len(owned))
	for _, id := range owned {
		have[id] = true
	}

	var sb strings.Builder
	sb.WriteString("🛍 Магазин наград:\n")
	for _, r := range reward.Catalog {
		mark := ""
		if have[r.ID] {
			mark = " ✅"
		}
		fmt.Fprintf(&sb, "• %s — %d очков (!купить %s)%s\n", r.Name, r.Cost, r.ID, mark)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) buy(userID, rewardID string) string {
	r, ok := reward.ByID(rewardID)
	if !ok {
		return "Такой награды нет. Посмотри !магазин"
	}
	if _, err := b.shop.Purchase(userID, rewardID); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyOwned):
			return "У тебя уже есть эта награда ✅"
		case errors.Is(err, store.ErrInsufficientFunds):
			return fmt.Sprintf("Не хватает очков: нужно %d. Пообщаемся ещё? 😊", r.Cost)
		default:
			b.log.Error().Err(err).Str("reward", rewardID).Msg("purchase failed")
			return "Покупка не прошла, попробуй позже."
		}
	}
	return fmt.Sprintf("🎁 Открыто: %s!", r.Name)
}

func (b *Bot) compatibility(userID string) string {
	ok, err := b.store.HasReward(userID, "compatibility_check")
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if !ok {
		return "Сначала открой проверку совместимости: !купить compatibility_check"
	}
	u, err := b.store.GetUser(userID)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	c := reward.Compatibility(u.Points, u.Level, u.StreakDays)
	return fmt.Sprintf("💞 Наша совместимость: %d%%\n%s", c, reward.CompatibilityMessage(c))
}

func (b *Bot) pickPersona(userID, name string) string {
	if name == "" {
		return "Можешь выбрать: " + strings.Join(persona.Names(), ", ")
	}
	p := persona.Get(name)
	if p.Name != name {
		return "Не знаю такую. Доступны: " + strings.Join(persona.Names(), ", ")
	}
	if err := b.store.SetPersona(userID, name); err != nil {
		return "Не получилось сменить персону."
	}
	return fmt.Sprintf("Теперь с тобой говорит %s 🌸", name)
}

func (b *Bot) setName(userID, name string) string {
	if name == "" {
		return "Как тебя называть? !имя <имя>"
	}
	u, err := b.store.GetUser(userID)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if err := b.store.SetProfile(userID, name, u.Gender); err != nil {
		b.log.Error().Err(err).Msg("set name failed")
		return "Не получилось, попробуй позже."
	}
	return fmt.Sprintf("Приятно познакомиться, %s 💕", name)
}

func (b *Bot) setGender(userID, value string) string {
	var gender string
	switch strings.ToLower(value) {
	case "м", "мужской", "male":
		gender = "male"
	case "ж", "женский", "female":
		gender = "female"
	default:
		return "Напиши: !пол м или !пол ж"
	}
	u, err := b.store.GetUser(userID)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if err := b.store.SetProfile(userID, u.Name, gender); err != nil {
		b.log.Error().Err(err).Msg("set gender failed")
		return "Не получилось, попробуй позже."
	}
	return "Запомнила 😊"
}

// customizeFields maps the command argument to the overlay field it sets.
var customizeFields = map[string]func(*store.Personalization, string){
	"архетип": func(p *store.Personalization, v string) { p.Archetype = v },
	"стиль":   func(p *store.Personalization, v string) { p.CommStyle = v },
	"черты":   func(p *store.Personalization, v string) { p.Traits = v },
	"фразы":   func(p *store.Personalization, v string) { p.Phrases = v },
}

func (b *Bot) customize(userID string, args []string) string {
	if len(args) < 2 {
		return "Напиши: !настройка <архетип|стиль|черты|фразы> <текст>"
	}
	set, ok := customizeFields[strings.ToLower(args[0])]
	if !ok {
		return "Напиши: !настройка <архетип|стиль|черты|фразы> <текст>"
	}
	p, err := b.store.GetPersonalization(userID)
	if err != nil {
		b.log.Error().Err(err).Msg("personalization load failed")
		return "Не получилось, попробуй позже."
	}
	set(p, strings.Join(args[1:], " "))
	if err := b.store.SetPersonalization(userID, *p); err != nil {
		b.log.Error().Err(err).Msg("personalization save failed")
		return "Не получилось, попробуй позже."
	}
	return "Хорошо, я учту это 🌸"
}

func (b *Bot) startTrial(userID string, now time.Time) string {
	eligible, err := b.engine.Access().TrialEligible(userID)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if !eligible {
		return "Пробный доступ уже был использован."
	}
	started, err := b.store.StartTrial(userID, now)
	if err != nil || !started {
		return "Пробный доступ уже был использован."
	}
	return "✨ Пробный доступ активирован на 24 часа!"
}

func (b *Bot) startRoleplay(userID, scenario string, now time.Time) string {
	allowed, err := b.engine.Access().Check(userID, entitlement.FeatureRoleplay, now)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if !allowed {
		return "Ролевые сцены доступны по подписке 💎"
	}

	if scenario == "" {
		var names []string
		for name := range roleplayScenarios {
			names = append(names, name)
		}
		sort.Strings(names)
		return "Выбери сцену: !ролеплей " + strings.Join(names, " / ")
	}
	opening, ok := roleplayScenarios[strings.ToLower(scenario)]
	if !ok {
		return "Не знаю такую сцену. Напиши !ролеплей без аргументов."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.engine.Sessions().Put(ctx, session.New(userID, session.KindRoleplay, scenario, now)); err != nil {
		b.log.Error().Err(err).Msg("roleplay session start failed")
		return "Не получилось начать сцену."
	}
	return "🎭 " + opening + "\n(напиши !стоп, чтобы закончить сцену)"
}

func (b *Bot) startHotPics(userID string, now time.Time) string {
	allowed, err := b.engine.Access().Check(userID, entitlement.FeatureHotPics, now)
	if err != nil {
		return "Не получилось, попробуй позже."
	}
	if !allowed {
		return "Этот режим доступен по подписке 💎"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.engine.Sessions().Put(ctx, session.New(userID, session.KindHotPics, "", now)); err != nil {
		b.log.Error().Err(err).Msg("hot pics session start failed")
		return "Не получилось, попробуй позже."
	}
	return "😊 Ты меня смущаешь... ладно, только для тебя. Дай мне минутку 📸"
}

func (b *Bot) stopSessions(userID string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, kind := range []session.Kind{session.KindRoleplay, session.KindHotPics} {
		if err := b.engine.Sessions().Delete(ctx, userID, kind); err != nil {
			b.log.Error().Err(err).Str("kind", string(kind)).Msg("session delete failed")
		}
	}
	return "Сцена закончена. Возвращаемся к обычной беседе 🌸"
}

func (b *Bot) adminCommand(userID string, args []string, now time.Time) string {
	if len(args) == 0 {
		return "Использование: !админ <stats|user|ban|unban|grant|trial> [аргументы]"
	}
	out, err := b.admin.Execute(userID, admin.Command(args[0]), args[1:], now)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrNotAdmin):
			return "Не знаю такой команды. Напиши !помощь"
		case errors.Is(err, admin.ErrBadArgs), errors.Is(err, admin.ErrUnknownCommand):
			return "Использование: !админ <stats|user|ban|unban|grant|trial> [аргументы]"
		default:
			b.log.Error().Err(err).Msg("admin command failed")
			return "Команда не выполнилась."
		}
	}
	return out
}
