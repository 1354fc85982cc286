package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinFullNameLength       = 2
	MaxFullNameLength       = 100
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 5000
	MinPitchLength          = 10
	MaxPitchLength          = 2000
	MaxSkillLength          = 50
	MaxSkillsCount          = 50
	MinBudget               = 0.0
	MaxBudget               = 100000000.0 // 100 миллионов
	MinMessageLength        = 1
	MaxMessageLength        = 5000
	MaxExternalLinkLength   = 500
	MaxEstimatedDays        = 3650
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	// Проверка на валидные символы в локальной части
	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	// Проверка на валидные символы в доменной части
	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateFullName проверяет полное имя пользователя.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("имя обязательно")
	}

	fullName = strings.TrimSpace(fullName)

	if err := ValidateLength("имя", fullName, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}

	// Только буквы, цифры, пробелы и некоторые спецсимволы
	fullNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,]+$`)
	if !fullNameRegex.MatchString(fullName) {
		return fmt.Errorf("имя содержит недопустимые символы")
	}

	return nil
}

// ValidateJobTitle проверяет заголовок заказа.
func ValidateJobTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок заказа обязателен")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("заголовок заказа", title, MinJobTitleLength, MaxJobTitleLength); err != nil {
		return err
	}

	return nil
}

// ValidateJobDescription проверяет описание заказа.
func ValidateJobDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание заказа обязательно")
	}

	description = strings.TrimSpace(description)

	if err := ValidateLength("описание заказа", description, MinJobDescriptionLength, MaxJobDescriptionLength); err != nil {
		return err
	}

	return nil
}

// ValidatePitch проверяет сопроводительное письмо отклика.
func ValidatePitch(pitch string) error {
	if pitch == "" {
		return fmt.Errorf("сопроводительное письмо обязательно")
	}

	pitch = strings.TrimSpace(pitch)

	if err := ValidateLength("сопроводительное письмо", pitch, MinPitchLength, MaxPitchLength); err != nil {
		return err
	}

	return nil
}

// ValidateBudget проверяет бюджет заказа.
func ValidateBudget(budget *float64) error {
	if budget != nil {
		if *budget < MinBudget {
			return fmt.Errorf("бюджет не может быть отрицательным")
		}
		if *budget > MaxBudget {
			return fmt.Errorf("бюджет не может превышать %.0f", MaxBudget)
		}
	}
	return nil
}

// ValidatePrice проверяет предложенную цену отклика.
func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("цена должна быть положительной")
	}
	if price > MaxBudget {
		return fmt.Errorf("цена не может превышать %.0f", MaxBudget)
	}
	return nil
}

// ValidateEstimatedDays проверяет оценку срока в днях.
func ValidateEstimatedDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("срок должен быть положительным")
	}
	if days > MaxEstimatedDays {
		return fmt.Errorf("срок не может превышать %d дней", MaxEstimatedDays)
	}
	return nil
}

// ValidateSkills проверяет массив навыков.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]bool)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("навык не может быть пустым")
		}

		// Проверка длины навыка
		if utf8.RuneCountInString(skill) > MaxSkillLength {
			return fmt.Errorf("навык не может быть длиннее %d символов", MaxSkillLength)
		}

		// Проверка на дубликаты (без учета регистра)
		skillLower := strings.ToLower(skill)
		if seen[skillLower] {
			return fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[skillLower] = true
	}

	return nil
}

// ValidateExternalLink проверяет внешнюю ссылку.
func ValidateExternalLink(link *string) error {
	if link != nil && *link != "" {
		linkStr := strings.TrimSpace(*link)

		if err := ValidateLength("внешняя ссылка", linkStr, 0, MaxExternalLinkLength); err != nil {
			return err
		}

		// Проверка формата URL
		parsedURL, err := url.Parse(linkStr)
		if err != nil {
			return fmt.Errorf("некорректный формат URL")
		}

		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("ссылка должна начинаться с http:// или https://")
		}

		if parsedURL.Host == "" {
			return fmt.Errorf("ссылка должна содержать доменное имя")
		}
	}
	return nil
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if content == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}

	content = strings.TrimSpace(content)

	if err := ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength); err != nil {
		return err
	}

	return nil
}
