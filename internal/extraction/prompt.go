package extraction

const instructionPrompt = `You read photographed tour itineraries and cost sheets.
Return ONE JSON object and nothing else, shaped as:
{
  "general": {"code": "", "customerName": "", "companyName": "", "nationality": "",
              "pax": 0, "startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD",
              "guideName": "", "driverName": "", "notes": ""},
  "services": [{"rawName": "", "quantity": 0, "price": 0, "notes": ""}],
  "itinerary": [{"day": 1, "date": "YYYY-MM-DD", "location": "", "activities": [""]}],
  "otherExpenses": [{"description": "", "amount": 0, "date": "YYYY-MM-DD", "notes": ""}],
  "advance": 0,
  "collectionsForCompany": 0,
  "companyTip": 0
}
Prices are unit prices as written on the document, as plain numbers without
separators or currency. Use "" or 0 when a value is not present.`
